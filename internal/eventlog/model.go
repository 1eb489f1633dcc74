package eventlog

import (
	"time"

	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

// Record is one tracked event as stored in the event log
type Record struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time        `gorm:"not null;index" json:"timestamp"`
	Type        winevent.Kind    `gorm:"not null;index" json:"type"`
	Hwnd        window.Handle    `gorm:"not null" json:"hwnd"`
	PID         window.ProcessID `gorm:"not null;default:0" json:"pid"`
	ProcessName string           `gorm:"not null;default:''" json:"process_name,omitempty"`
	TargetPID   window.ProcessID `gorm:"not null;index" json:"target_pid"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name stable if the type is renamed
func (Record) TableName() string {
	return "events"
}

// KindCount is one row of CountByType
type KindCount struct {
	Type  winevent.Kind `json:"type"`
	Count int64         `json:"count"`
}

// NewRecord builds a record for e observed now
func NewRecord(e winevent.Event, targetPid window.ProcessID, processName string) Record {
	return Record{
		Timestamp:   time.Now(),
		Type:        e.Type,
		Hwnd:        e.Hwnd,
		PID:         e.PID,
		ProcessName: processName,
		TargetPID:   targetPid,
	}
}
