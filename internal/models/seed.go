package models

import (
	"time"
)

// SeedRun 一次 seed 执行记录
type SeedRun struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	CMSOrigin  string     `gorm:"not null" json:"cms_origin"`
	Status     string     `gorm:"not null;default:'running'" json:"status"` // running, completed, failed
	Error      string     `gorm:"type:text" json:"error"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// SeedRecord is one entity outcome inside a run.
type SeedRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"size:36;not null;index" json:"run_id"`
	Run        SeedRun   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Kind       string    `gorm:"not null;index" json:"kind"` // author, category, tag, post, publish
	NaturalKey string    `gorm:"not null" json:"natural_key"`
	State      string    `gorm:"not null" json:"state"`
	CMSID      int       `json:"cms_id"`
	Error      string    `gorm:"type:text" json:"error"`
	CreatedAt  time.Time `json:"created_at"`
}
