package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将版面参数与放置事件序列输出为 JSON，便于调试。
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
