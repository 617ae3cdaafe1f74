package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"embed:goregular", "gobold", " GoMono "} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("加载 %q 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%q 数据为空", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 6 || names[0] != "gobold" {
		t.Fatalf("内置字体列表不符: %v", names)
	}
}
