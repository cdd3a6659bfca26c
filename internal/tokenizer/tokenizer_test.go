package tokenizer

import (
	"errors"
	"testing"
)

func TestExtractToken_CommaDelimited(t *testing.T) {
	tok := New(',')
	record := " Armchair , 654321 ,10, Upholstered Wing Chair"

	want := []string{"Armchair", "654321", "10", "Upholstered Wing Chair"}
	pos := 0
	for i, expected := range want {
		field, more, err := tok.ExtractToken(record, &pos)
		if err != nil {
			t.Fatalf("第 %d 个字段提取失败: %v", i, err)
		}
		if field != expected {
			t.Errorf("字段 %d: 预期 %q, 得到 %q", i, expected, field)
		}
		if i < len(want)-1 && !more {
			t.Errorf("字段 %d 之后应该还有更多字段", i)
		}
		if i == len(want)-1 && more {
			t.Errorf("最后一个字段之后不应再有字段")
		}
	}
}

func TestExtractToken_PipeDelimited(t *testing.T) {
	tok := New('|')
	record := "CPU | 952140 | 20 | Intel i7 9th Gen"

	pos := 0
	field, more, err := tok.ExtractToken(record, &pos)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if field != "CPU" || !more {
		t.Errorf("预期 (CPU, true), 得到 (%q, %v)", field, more)
	}
}

func TestExtractToken_EmptyFieldIsError(t *testing.T) {
	tok := New(',')
	record := "Wheel,,100"

	pos := 0
	if _, _, err := tok.ExtractToken(record, &pos); err != nil {
		t.Fatalf("首个字段不应报错: %v", err)
	}
	_, _, err := tok.ExtractToken(record, &pos)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("空字段应返回 ErrNoToken, 得到: %v", err)
	}
}

func TestExtractToken_CursorPastEnd(t *testing.T) {
	tok := New(',')
	pos := 10
	field, more, err := tok.ExtractToken("short", &pos)
	if err != nil || field != "" || more {
		t.Errorf("游标越界应返回空结果, 得到 (%q, %v, %v)", field, more, err)
	}
}

func TestFieldWidth_TracksWidest(t *testing.T) {
	tok := New(',')
	record := "ab,longest-field,c"
	pos := 0
	for {
		_, more, err := tok.ExtractToken(record, &pos)
		if err != nil {
			t.Fatalf("提取失败: %v", err)
		}
		if !more {
			break
		}
	}
	if got := tok.FieldWidth(); got != len("longest-field") {
		t.Errorf("预期最大宽度 %d, 得到 %d", len("longest-field"), got)
	}
}
