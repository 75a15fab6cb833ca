package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// ScheduledJob is one recurring task for a shop. LastStatus doubles as the
// run guard: starting a job is a compare-and-swap to running over this column.
type ScheduledJob struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop       string             `gorm:"column:shop;not null;uniqueIndex:idx_scheduled_jobs_shop_type"`
	JobType    enums.JobType      `gorm:"column:job_type;type:text;not null;uniqueIndex:idx_scheduled_jobs_shop_type"`
	Schedule   enums.ScheduleKind `gorm:"column:schedule;type:text;not null"`
	Enabled    bool               `gorm:"column:enabled;not null;default:true"`
	LastRunAt  *time.Time         `gorm:"column:last_run_at"`
	LastStatus enums.JobRunStatus `gorm:"column:last_status;type:text;not null;default:'pending'"`
	LastError  *string            `gorm:"column:last_error"`
	NextRunAt  *time.Time         `gorm:"column:next_run_at;index"`
	RunCount   int                `gorm:"column:run_count;not null;default:0"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
