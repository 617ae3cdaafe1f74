package dsl

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// DirLoader 从目录读取公式图片，相对路径相对于 Dir 解析。
type DirLoader struct {
	Dir string
}

// LoadImage implements Loader.
func (l DirLoader) LoadImage(path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("图片路径为空")
	}
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	return img, nil
}

// ParseFile 解析 .inl 文件。
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return documentParser.Parse(path, f)
}
