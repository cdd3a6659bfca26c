package fsm

import "testing"

func TestLifecycle_HappyPath(t *testing.T) {
	f := New("ORD-001")
	if f.Current != StatePending {
		t.Fatalf("初始状态应为 PENDING, 得到 %s", f.Current)
	}
	if err := f.Fire(EventAdmit); err != nil {
		t.Fatalf("注入失败: %v", err)
	}
	if err := f.Fire(EventComplete); err != nil {
		t.Fatalf("完成失败: %v", err)
	}
	if !f.Terminal() || f.Current != StateCompleted {
		t.Errorf("预期终端状态 COMPLETED, 得到 %s", f.Current)
	}
}

func TestLifecycle_RejectsOutOfOrderEvents(t *testing.T) {
	f := New("ORD-001")

	// 未注入就宣告完成是乱序事件
	if err := f.Fire(EventComplete); err == nil {
		t.Fatalf("PENDING 状态不应接受 COMPLETE")
	}
	if f.Current != StatePending {
		t.Errorf("非法转移后状态应保持不变, 得到 %s", f.Current)
	}

	f.Fire(EventAdmit)
	f.Fire(EventFallOut)
	if err := f.Fire(EventAdmit); err == nil {
		t.Errorf("终端状态不应再接受事件")
	}
}
