package service

import (
	"context"
	"interrogator/internal/model"
	"testing"
)

func reloadSection(t *testing.T, st *stack, id uint) *model.Section {
	t.Helper()
	var s model.Section
	if err := st.db.First(&s, id).Error; err != nil {
		t.Fatalf("reload section: %v", err)
	}
	return &s
}

func TestSyncIsFullReplace(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, _, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 0, 0)
	sync := NewOptionsSynchronizer(st.db)

	if err := sync.Sync(ctx, section, model.Options{"a": model.IntValue(1), "b": model.IntValue(2)}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := reloadSection(t, st, section.ID).GetOptions(); len(got) != 2 {
		t.Fatalf("stored options = %v", got)
	}

	if err := sync.Sync(ctx, section, model.Options{"a": model.IntValue(1)}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	got := reloadSection(t, st, section.ID).GetOptions()
	if !got.Equal(model.Options{"a": model.IntValue(1)}) {
		t.Fatalf("stored options = %v, want exactly {a:1}", got)
	}

	if err := sync.Sync(ctx, section, model.Options{}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := reloadSection(t, st, section.ID).GetOptions(); len(got) != 0 {
		t.Fatalf("empty sync left %v", got)
	}
}

func TestSetAndUnsetOptionPersistImmediately(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, _, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 0, 0)
	sync := NewOptionsSynchronizer(st.db)

	if err := sync.SetOption(ctx, section, model.OrderOptionKey, model.IntValue(5)); err != nil {
		t.Fatalf("set: %v", err)
	}
	stored := reloadSection(t, st, section.ID)
	if stored.Order() != 5 || section.Position != 5 {
		t.Fatalf("order not persisted: stored %d, local %d", stored.Order(), section.Position)
	}

	if err := sync.UnsetOption(ctx, section, model.OrderOptionKey); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if reloadSection(t, st, section.ID).Order() != 1 {
		t.Fatalf("order should fall back to 1")
	}

	// unsetting a missing key is harmless
	if err := sync.UnsetOption(ctx, section, "missing"); err != nil {
		t.Fatalf("unset missing: %v", err)
	}
}
