package views

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"solar-dealer-hub/internal/models"
)

// PipelineBucket is one column of the project pipeline board.
type PipelineBucket struct {
	Column   models.PipelineColumn `json:"column"`
	Count    int                   `json:"count"`
	TotalKW  float64               `json:"totalKW"`
	Projects []models.Project      `json:"projects"`
}

// Pipeline holds every column in board order. Projects whose stage is not
// part of the closed set land in Unclassified instead of disappearing.
type Pipeline struct {
	Columns      []PipelineBucket `json:"columns"`
	Unclassified []models.Project `json:"unclassified"`
}

// BucketProjects places every project in exactly one column or in Unclassified.
func BucketProjects(projects []models.Project) Pipeline {
	index := make(map[models.PipelineColumn]int, len(models.PipelineColumns))
	p := Pipeline{
		Columns:      make([]PipelineBucket, len(models.PipelineColumns)),
		Unclassified: []models.Project{},
	}
	for i, c := range models.PipelineColumns {
		p.Columns[i] = PipelineBucket{Column: c, Projects: []models.Project{}}
		index[c] = i
	}

	for _, pr := range projects {
		stage, err := models.ParseProjectStage(pr.StatusStage)
		if err != nil {
			p.Unclassified = append(p.Unclassified, pr)
			continue
		}
		b := &p.Columns[index[stage.Column()]]
		b.Count++
		b.TotalKW += pr.TotalKW
		b.Projects = append(b.Projects, pr)
	}
	return p
}

// ProjectFilter narrows the project list. Stage and Column accept any spelling
// ParseProjectStage understands.
type ProjectFilter struct {
	Category       string `form:"category" json:"category,omitempty"`
	SubCategory    string `form:"subCategory" json:"subCategory,omitempty"`
	ProjectType    string `form:"projectType" json:"projectType,omitempty"`
	SubProjectType string `form:"subProjectType" json:"subProjectType,omitempty"`
	Stage          string `form:"stage" json:"stage,omitempty"`
	Column         string `form:"column" json:"column,omitempty"`
	CP             string `form:"cp" json:"cp,omitempty"`
	Search         string `form:"search" json:"search,omitempty"`
}

func (f ProjectFilter) Match(p models.Project) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.SubCategory != "" && !strings.EqualFold(p.SubCategory, f.SubCategory) {
		return false
	}
	if f.ProjectType != "" && !strings.EqualFold(p.ProjectType, f.ProjectType) {
		return false
	}
	if f.SubProjectType != "" && !strings.EqualFold(p.SubProjectType, f.SubProjectType) {
		return false
	}
	if f.CP != "" && !strings.EqualFold(p.CP, f.CP) {
		return false
	}
	if f.Stage != "" || f.Column != "" {
		stage, err := models.ParseProjectStage(p.StatusStage)
		if err != nil {
			return false
		}
		if f.Stage != "" {
			want, err := models.ParseProjectStage(f.Stage)
			if err != nil || want != stage {
				return false
			}
		}
		if f.Column != "" && !strings.EqualFold(string(stage.Column()), f.Column) {
			return false
		}
	}
	if f.Search != "" {
		return containsFold(f.Search, p.ProjectID, p.ProjectName, p.Customer, p.CP)
	}
	return true
}

func FilterProjects(projects []models.Project, f ProjectFilter) []models.Project {
	return filter(projects, f.Match)
}

// Summary is the headline numbers of the project dashboard.
type Summary struct {
	Total        int            `json:"total"`
	TotalKW      float64        `json:"totalKW"`
	ByColumn     map[string]int `json:"byColumn"`
	ByCategory   map[string]int `json:"byCategory"`
	Unclassified int            `json:"unclassified"`
}

func ProjectSummary(projects []models.Project) Summary {
	s := Summary{
		ByColumn:   make(map[string]int, len(models.PipelineColumns)),
		ByCategory: map[string]int{},
	}
	for _, c := range models.PipelineColumns {
		s.ByColumn[string(c)] = 0
	}
	for _, p := range projects {
		s.Total++
		s.TotalKW += p.TotalKW
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		s.ByCategory[cat]++
		stage, err := models.ParseProjectStage(p.StatusStage)
		if err != nil {
			s.Unclassified++
			continue
		}
		s.ByColumn[string(stage.Column())]++
	}
	return s
}

// CPPerformance ranks a channel partner by installed capacity.
type CPPerformance struct {
	CP        string  `json:"cp"`
	Projects  int     `json:"projects"`
	Completed int     `json:"completed"`
	TotalKW   float64 `json:"totalKW"`
}

// TopPerformers ranks channel partners by kW across non-cancelled projects.
// n <= 0 returns every partner.
func TopPerformers(projects []models.Project, n int) []CPPerformance {
	grouped := make(map[string]*CPPerformance)
	for _, p := range projects {
		if p.CP == "" {
			continue
		}
		stage, err := models.ParseProjectStage(p.StatusStage)
		if err == nil && stage == models.StageCancelled {
			continue
		}
		g, ok := grouped[p.CP]
		if !ok {
			g = &CPPerformance{CP: p.CP}
			grouped[p.CP] = g
		}
		g.Projects++
		g.TotalKW += p.TotalKW
		if err == nil && stage == models.StageCompleted {
			g.Completed++
		}
	}

	out := make([]CPPerformance, 0, len(grouped))
	for _, g := range grouped {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b CPPerformance) int {
		return cmp.Or(cmp.Compare(b.TotalKW, a.TotalKW), cmp.Compare(a.CP, b.CP))
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CPActivity is the last time a channel partner touched any project.
type CPActivity struct {
	CP           string    `json:"cp"`
	Projects     int       `json:"projects"`
	LastActivity time.Time `json:"lastActivity"`
}

// InactiveDealers lists channel partners with no project activity after since,
// least recently active first.
func InactiveDealers(projects []models.Project, since time.Time) []CPActivity {
	grouped := make(map[string]*CPActivity)
	for _, p := range projects {
		if p.CP == "" {
			continue
		}
		last := p.UpdatedAt
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
		g, ok := grouped[p.CP]
		if !ok {
			g = &CPActivity{CP: p.CP}
			grouped[p.CP] = g
		}
		g.Projects++
		if last.After(g.LastActivity) {
			g.LastActivity = last
		}
	}

	out := []CPActivity{}
	for _, g := range grouped {
		if g.LastActivity.Before(since) {
			out = append(out, *g)
		}
	}
	slices.SortFunc(out, func(a, b CPActivity) int {
		return cmp.Or(a.LastActivity.Compare(b.LastActivity), cmp.Compare(a.CP, b.CP))
	})
	return out
}
