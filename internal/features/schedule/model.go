package schedule

import (
	"errors"
	"time"

	"deskwise/internal/features/export"
	"deskwise/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrScheduleNotFound = errors.New("report schedule not found")
	ErrScheduleLocked   = errors.New("report schedule is already executing")
	ErrScheduleNotDue   = errors.New("report schedule is no longer due")
	ErrInvalidSchedule  = errors.New("invalid report schedule")
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailed  ExecutionStatus = "failed"
)

// ReportSchedule runs Query at Time on the days selected by Frequency,
// DayOfWeek (0 = Sunday) and DayOfMonth, in Timezone.
type ReportSchedule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrgID       string             `json:"org_id" bson:"org_id" validate:"required"`
	ReportID    string             `json:"report_id,omitempty" bson:"report_id,omitempty"`
	ReportName  string             `json:"report_name" bson:"report_name" validate:"required,max=200"`
	Enabled     bool               `json:"enabled" bson:"enabled"`
	Frequency   Frequency          `json:"frequency" bson:"frequency" validate:"required,oneof=daily weekly monthly"`
	DayOfWeek   *int               `json:"day_of_week,omitempty" bson:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	DayOfMonth  *int               `json:"day_of_month,omitempty" bson:"day_of_month,omitempty" validate:"omitempty,min=1,max=31"`
	Time        string             `json:"time" bson:"time" validate:"required,hhmm"`
	Timezone    string             `json:"timezone,omitempty" bson:"timezone,omitempty" validate:"omitempty,timezone"`
	Recipients  []string           `json:"recipients" bson:"recipients" validate:"dive,email"`
	Formats     []export.Format    `json:"formats" bson:"formats" validate:"dive,oneof=csv excel pdf"`
	Query       report.ReportQuery `json:"query" bson:"query"`
	LastRun     *time.Time         `json:"last_run,omitempty" bson:"last_run,omitempty"`
	NextRun     time.Time          `json:"next_run" bson:"next_run"`
	RunCount    int                `json:"run_count" bson:"run_count"`
	LockedUntil *time.Time         `json:"-" bson:"locked_until,omitempty"`
	LockedBy    string             `json:"-" bson:"locked_by,omitempty"`
	CreatedBy   string             `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// SchedulePatch carries a partial update. Nil fields are left unchanged.
type SchedulePatch struct {
	ReportName *string             `json:"report_name,omitempty"`
	Enabled    *bool               `json:"enabled,omitempty"`
	Frequency  *Frequency          `json:"frequency,omitempty"`
	DayOfWeek  *int                `json:"day_of_week,omitempty"`
	DayOfMonth *int                `json:"day_of_month,omitempty"`
	Time       *string             `json:"time,omitempty"`
	Timezone   *string             `json:"timezone,omitempty"`
	Recipients *[]string           `json:"recipients,omitempty"`
	Formats    *[]export.Format    `json:"formats,omitempty"`
	Query      *report.ReportQuery `json:"query,omitempty"`
}

// affectsTiming reports whether applying p can move the next run.
func (p SchedulePatch) affectsTiming() bool {
	return p.Enabled != nil || p.Frequency != nil || p.DayOfWeek != nil ||
		p.DayOfMonth != nil || p.Time != nil || p.Timezone != nil
}

// ScheduledReportExecution is one append-only entry of a schedule's history.
type ScheduledReportExecution struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduleID      primitive.ObjectID `json:"schedule_id" bson:"schedule_id"`
	OrgID           string             `json:"org_id" bson:"org_id"`
	ReportName      string             `json:"report_name" bson:"report_name"`
	ExecutedAt      time.Time          `json:"executed_at" bson:"executed_at"`
	Status          ExecutionStatus    `json:"status" bson:"status"`
	Error           string             `json:"error,omitempty" bson:"error,omitempty"`
	RecipientCount  int                `json:"recipient_count" bson:"recipient_count"`
	ExecutionTimeMs int64              `json:"execution_time_ms" bson:"execution_time_ms"`
	ResultCount     int                `json:"result_count" bson:"result_count"`
}

// SweepResult summarises one pass over the due schedules.
type SweepResult struct {
	Due       int `json:"due"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}
