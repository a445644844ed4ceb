package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/suderio/arena/internal/engine"
)

// EventWrapper facilitates serialization of polymorphic events.
type EventWrapper struct {
	Seq   uint64           `json:"seq"`
	Turn  int              `json:"turn"`
	Type  engine.EventType `json:"type"`
	Event json.RawMessage  `json:"data"`
}

// Store handles append-only storing of the battle journal.
type Store struct {
	file *os.File
	last uint64
}

// NewStore opens or creates the file at path for appending lines.
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Append marshals one journal record to a jsonl line.
// Records must arrive in increasing sequence order.
func (s *Store) Append(rec engine.Record) error {
	if rec.Event == nil {
		return fmt.Errorf("record %d has no event", rec.Seq)
	}
	if rec.Seq <= s.last {
		return fmt.Errorf("record %d is out of order (last %d)", rec.Seq, s.last)
	}
	data, err := json.Marshal(rec.Event)
	if err != nil {
		return err
	}

	wrapper := EventWrapper{
		Seq:   rec.Seq,
		Turn:  rec.Turn,
		Type:  rec.Event.Type(),
		Event: data,
	}

	wrapperData, err := json.Marshal(wrapper)
	if err != nil {
		return err
	}

	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	s.last = rec.Seq
	return s.file.Sync()
}

// AppendAll writes every record newer than the last one stored and reports how many were written.
func (s *Store) AppendAll(recs []engine.Record) (int, error) {
	n := 0
	for _, r := range recs {
		if r.Seq <= s.last {
			continue
		}
		if err := s.Append(r); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Load replays all jsonl lines and unpacks them into journal records.
func (s *Store) Load() ([]engine.Record, error) {
	var records []engine.Record

	// Reset file pointer to beginning
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper: %w", err)
		}

		evt, err := newEvent(wrapper.Type)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(wrapper.Event, evt); err != nil {
			return nil, fmt.Errorf("failed to parse event data into specific type: %w", err)
		}

		records = append(records, engine.Record{Seq: wrapper.Seq, Turn: wrapper.Turn, Event: evt})
		if wrapper.Seq > s.last {
			s.last = wrapper.Seq
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func newEvent(t engine.EventType) (engine.Event, error) {
	switch t {
	case engine.EventBattleStarted:
		return &engine.BattleStartedEvent{}, nil
	case engine.EventPhaseChanged:
		return &engine.PhaseChangedEvent{}, nil
	case engine.EventMoveUsed:
		return &engine.MoveUsedEvent{}, nil
	case engine.EventDamageDealt:
		return &engine.DamageDealtEvent{}, nil
	case engine.EventHealed:
		return &engine.HealedEvent{}, nil
	case engine.EventFainted:
		return &engine.FaintedEvent{}, nil
	case engine.EventStatusChanged:
		return &engine.StatusChangedEvent{}, nil
	case engine.EventStatStageChanged:
		return &engine.StatStageChangedEvent{}, nil
	case engine.EventVolatileChanged:
		return &engine.VolatileChangedEvent{}, nil
	case engine.EventCountersChanged:
		return &engine.CountersChangedEvent{}, nil
	case engine.EventSwitched:
		return &engine.SwitchedEvent{}, nil
	case engine.EventItemUsed:
		return &engine.ItemUsedEvent{}, nil
	case engine.EventWeatherChanged:
		return &engine.WeatherChangedEvent{}, nil
	case engine.EventFieldEffectAdded:
		return &engine.FieldEffectAddedEvent{}, nil
	case engine.EventFieldDecayed:
		return &engine.FieldDecayedEvent{}, nil
	case engine.EventTurnEnded:
		return &engine.TurnEndedEvent{}, nil
	case engine.EventBattleEnded:
		return &engine.BattleEndedEvent{}, nil
	case engine.EventNotice:
		return &engine.NoticeEvent{}, nil
	}
	return nil, fmt.Errorf("unknown event type in log: %s", t)
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
