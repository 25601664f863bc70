package models

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStage is the closed set of pipeline stages a project can be in.
type ProjectStage string

const (
	StageLead              ProjectStage = "lead"
	StageKYCPending        ProjectStage = "kyc_pending"
	StageKYCVerified       ProjectStage = "kyc_verified"
	StageSiteSurvey        ProjectStage = "site_survey"
	StageInstallerAssigned ProjectStage = "installer_assigned"
	StageInstallation      ProjectStage = "installation"
	StageCommissioning     ProjectStage = "commissioning"
	StageCompleted         ProjectStage = "completed"
	StageCancelled         ProjectStage = "cancelled"
)

// Stages lists every stage in pipeline order.
var Stages = []ProjectStage{
	StageLead,
	StageKYCPending,
	StageKYCVerified,
	StageSiteSurvey,
	StageInstallerAssigned,
	StageInstallation,
	StageCommissioning,
	StageCompleted,
	StageCancelled,
}

// stageAliases maps spellings seen in older records onto the canonical stage.
var stageAliases = map[string]ProjectStage{
	"new":                      StageLead,
	"new_lead":                 StageLead,
	"enquiry":                  StageLead,
	"kyc":                      StageKYCPending,
	"kyc_submitted":            StageKYCPending,
	"kyc_done":                 StageKYCVerified,
	"kyc_completed":            StageKYCVerified,
	"kyc_approved":             StageKYCVerified,
	"survey":                   StageSiteSurvey,
	"site_visit":               StageSiteSurvey,
	"assign_installer":         StageInstallerAssigned,
	"installer":                StageInstallerAssigned,
	"in_progress":              StageInstallation,
	"installing":               StageInstallation,
	"installation_in_progress": StageInstallation,
	"commissioned":             StageCommissioning,
	"net_metering":             StageCommissioning,
	"complete":                 StageCompleted,
	"done":                     StageCompleted,
	"installed":                StageCompleted,
	"canceled":                 StageCancelled,
	"rejected":                 StageCancelled,
}

// ErrUnknownStage is returned for a status stage outside the closed set.
type ErrUnknownStage struct {
	Value string
}

func (e *ErrUnknownStage) Error() string {
	return fmt.Sprintf("unknown project stage %q", e.Value)
}

// ParseProjectStage normalises case, spaces and hyphens and resolves known aliases.
func ParseProjectStage(s string) (ProjectStage, error) {
	key := normaliseStage(s)
	for _, st := range Stages {
		if string(st) == key {
			return st, nil
		}
	}
	if st, ok := stageAliases[key]; ok {
		return st, nil
	}
	return "", &ErrUnknownStage{Value: s}
}

func normaliseStage(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// PipelineColumn is a dashboard column grouping one or more stages.
type PipelineColumn string

const (
	ColumnNew          PipelineColumn = "New"
	ColumnKYC          PipelineColumn = "KYC"
	ColumnInstaller    PipelineColumn = "Installer"
	ColumnInstallation PipelineColumn = "Installation"
	ColumnCompleted    PipelineColumn = "Completed"
	ColumnCancelled    PipelineColumn = "Cancelled"
)

var PipelineColumns = []PipelineColumn{
	ColumnNew, ColumnKYC, ColumnInstaller, ColumnInstallation, ColumnCompleted, ColumnCancelled,
}

// Column returns the pipeline column the stage is shown in.
func (s ProjectStage) Column() PipelineColumn {
	switch s {
	case StageLead:
		return ColumnNew
	case StageKYCPending, StageKYCVerified:
		return ColumnKYC
	case StageSiteSurvey, StageInstallerAssigned:
		return ColumnInstaller
	case StageInstallation, StageCommissioning:
		return ColumnInstallation
	case StageCompleted:
		return ColumnCompleted
	default:
		return ColumnCancelled
	}
}

// Project - one installation tracked from lead to commissioning
type Project struct {
	ID             uint      `gorm:"primaryKey" json:"_id"`
	ProjectID      string    `gorm:"uniqueIndex;size:40;not null" json:"projectId"`
	ProjectName    string    `gorm:"size:150" json:"projectName"`
	Customer       string    `gorm:"size:150" json:"customer"`
	Category       string    `gorm:"size:50;index" json:"category"` // Residential, Commercial, Industrial
	SubCategory    string    `gorm:"size:50" json:"subCategory"`
	ProjectType    string    `gorm:"size:50" json:"projectType"` // On-Grid, Off-Grid, Hybrid
	SubProjectType string    `gorm:"size:50" json:"subProjectType"`
	StatusStage    string    `gorm:"size:40;index" json:"statusStage"`
	TotalKW        float64   `json:"totalKW"`
	CP             string    `gorm:"size:150;index" json:"cp"` // channel partner
	StateID        *uint     `json:"stateId"`
	DistrictID     *uint     `json:"districtId"`
	ClusterID      *uint     `json:"clusterId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
