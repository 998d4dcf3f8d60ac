package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 解析内嵌的页面模板，模板名为文件名（如 index.html）
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	return tmpl, nil
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"avg":  FormatAverage,
		"date": FormatDate,
		"seq":  seq,
	}
}

// FormatAverage 暂无评分时显示 "-"
func FormatAverage(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *avg)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// seq 生成 [from, to] 的整数序列，用于渲染评分选项
func seq(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
