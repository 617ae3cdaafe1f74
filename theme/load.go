package theme

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Load 在默认主题之上解码 TOML，未出现的键保持默认值。
func Load(r io.Reader) (*Theme, error) {
	th := Default()
	md, err := toml.NewDecoder(r).Decode(th)
	if err != nil {
		return nil, fmt.Errorf("解析主题失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("主题包含未知配置项: %v", undecoded)
	}
	return th, nil
}

// LoadFile 从文件读取主题。
func LoadFile(path string) (*Theme, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开主题文件 %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Encode 以 TOML 输出主题。
func (t *Theme) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(t)
}
