package fullpage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-rod/fullpage/lib/defaults"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/tidwall/gjson"
)

// sprintFnApply is a helper to render template into js code
// js looks like "(a, b) => {}", the a and b are the params passed into the function
func sprintFnApply(js string, params []interface{}) string {
	if params == nil {
		params = []interface{}{}
	}
	return fmt.Sprintf(`(%s).apply(this, %s)`, js, utils.MustToJSON(params))
}

// exceptionText from the exceptionDetails of Runtime.evaluate or Runtime.callFunctionOn
func exceptionText(res gjson.Result) string {
	if desc := res.Get("exceptionDetails.exception.description").String(); desc != "" {
		return desc
	}
	return res.Get("exceptionDetails.text").String()
}

func saveFile(bin []byte, toFile []string) error {
	if len(toFile) == 0 {
		return nil
	}
	if toFile[0] == "" {
		toFile = []string{defaults.Dir, fmt.Sprintf("%d.png", time.Now().UnixNano())}
	}
	return utils.OutputFile(filepath.Join(toFile...), bin)
}
