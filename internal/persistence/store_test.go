package persistence

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/suderio/arena/internal/engine"
)

func TestStoreAppendLoad(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "log.jsonl")

	store, err := NewStore(logPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	err = store.Append(engine.Record{Seq: 1, Event: &engine.DamageDealtEvent{
		TargetID: "pikachu",
		Amount:   12,
		Source:   "move",
		Critical: true,
		Factor:   2,
	}})
	if err != nil {
		t.Fatalf("failed to append damage: %v", err)
	}

	err = store.Append(engine.Record{Seq: 2, Turn: 1, Event: &engine.StatusChangedEvent{
		TargetID:   "pikachu",
		Status:     engine.StatusSleep,
		SleepTurns: 2,
	}})
	if err != nil {
		t.Fatalf("failed to append status: %v", err)
	}

	if err := store.Append(engine.Record{Seq: 2, Event: &engine.FieldDecayedEvent{}}); err == nil {
		t.Errorf("expected an out of order record to be rejected")
	}

	// Read it back
	records, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load events: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records loaded, got %d", len(records))
	}

	e1, ok := records[0].Event.(*engine.DamageDealtEvent)
	if !ok {
		t.Errorf("expected first event to be DamageDealtEvent")
	} else if e1.Amount != 12 || !e1.Critical || e1.Factor != 2 {
		t.Errorf("unexpected damage event %+v", e1)
	}

	e2, ok := records[1].Event.(*engine.StatusChangedEvent)
	if !ok {
		t.Errorf("expected second event to be StatusChangedEvent")
	} else if e2.Status != engine.StatusSleep || e2.SleepTurns != 2 {
		t.Errorf("unexpected status event %+v", e2)
	}
	if records[1].Seq != 2 || records[1].Turn != 1 {
		t.Errorf("expected seq 2 turn 1, got %d/%d", records[1].Seq, records[1].Turn)
	}
}

func TestStoreReopenContinuesSequence(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.jsonl")

	store, err := NewStore(logPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.AppendAll([]engine.Record{
		{Seq: 1, Event: &engine.NoticeEvent{Text: "one"}},
		{Seq: 2, Event: &engine.NoticeEvent{Text: "two"}},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	store.Close()

	store, err = NewStore(logPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store.Close()
	if _, err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	n, err := store.AppendAll([]engine.Record{
		{Seq: 1, Event: &engine.NoticeEvent{Text: "one"}},
		{Seq: 2, Event: &engine.NoticeEvent{Text: "two"}},
		{Seq: 3, Event: &engine.NoticeEvent{Text: "three"}},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n != 1 {
		t.Errorf("expected only the new record to be written, wrote %d", n)
	}
	records, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestJournalReplay(t *testing.T) {
	repo := engine.NewMemoryRepository().
		AddMove(&engine.Move{ID: 1, Name: "Tackle", Type: engine.TypeNormal, Category: engine.CategoryPhysical, Power: 40, Accuracy: 100, PP: 35}).
		AddMove(&engine.Move{ID: 2, Name: "Ember", Type: engine.TypeFire, Category: engine.CategorySpecial, Power: 40, Accuracy: 100, PP: 25,
			Secondary: []engine.Effect{{Kind: engine.EffectStatus, Status: engine.StatusBurn, Chance: 10}}})
	species := &engine.Species{ID: 1, Name: "Blob", Types: []engine.Type{engine.TypeNormal},
		BaseStats: engine.Stats{HP: 50, Attack: 50, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50}}
	fire := &engine.Species{ID: 2, Name: "Ember", Types: []engine.Type{engine.TypeFire},
		BaseStats: engine.Stats{HP: 50, Attack: 50, Defense: 50, SpAttack: 60, SpDefense: 50, Speed: 60}}

	a, _ := engine.NewCombatant("blob", species, 30, repo, 1)
	b, _ := engine.NewCombatant("flame", fire, 30, repo, 2)
	battle, err := engine.NewBattle("replay", engine.DefaultConfig(), repo, engine.NewSeededRNG(42),
		[]*engine.Side{engine.NewSide("p1", "One", a), engine.NewSide("p2", "Two", b)})
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	for turn := 0; turn < 50 && battle.IsActive(); turn++ {
		if err := battle.QueueAction(engine.MoveAction("blob", 0, "")); err != nil {
			t.Fatalf("queue: %v", err)
		}
		if err := battle.QueueAction(engine.MoveAction("flame", 0, "")); err != nil {
			t.Fatalf("queue: %v", err)
		}
		if _, err := battle.ProcessTurn(); err != nil {
			t.Fatalf("turn: %v", err)
		}
	}

	mgr := NewBattleManager(t.TempDir())
	meta := &Meta{ID: battle.ID(), Seed: 42, Teams: []string{"One", "Two"}}
	store, err := mgr.Create(meta)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.AppendAll(battle.Events()); err != nil {
		t.Fatalf("append: %v", err)
	}
	store.Close()

	store, loaded, err := mgr.Load(battle.ID())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer store.Close()
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	records, err := store.Load()
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	replayed, err := engine.NewProjector().Build(records)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reflect.DeepEqual(replayed, battle.State()) {
		t.Errorf("replayed state differs from the live state")
	}
}

func TestBattleManagerList(t *testing.T) {
	mgr := NewBattleManager(filepath.Join(t.TempDir(), "battles"))

	list, err := mgr.List()
	if err != nil || len(list) != 0 {
		t.Fatalf("expected an empty list, got %v %v", list, err)
	}

	for _, id := range []string{"first", "second"} {
		store, err := mgr.Create(&Meta{ID: id})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		store.Close()
	}
	if _, err := mgr.Create(&Meta{ID: "first"}); err == nil {
		t.Errorf("expected a duplicate battle to be rejected")
	}

	store, err := mgr.Create(&Meta{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Close()

	list, err = mgr.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 battles, got %d", len(list))
	}
	if _, _, err := mgr.Load("missing"); err == nil {
		t.Errorf("expected loading a missing battle to fail")
	}
}
