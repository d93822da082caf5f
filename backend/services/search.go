package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"coursepanel/backend/store"
)

// SearchResult is one ranked hit from the unified search surface.
type SearchResult struct {
	Type        string  `json:"type"` // course, module, lecture, quiz, user
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subtitle    string  `json:"subtitle"`
	Score       float64 `json:"score"`
}

// SearchOptions carries the query plus the entity-specific facet filters.
// Zero values mean "no filter".
type SearchOptions struct {
	Query      string   `json:"query"`
	Types      []string `json:"types"`
	Category   string   `json:"category"`
	Level      string   `json:"level"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"` // 0 = unbounded
	Role       string   `json:"role"`
	Status     string   `json:"status"` // published, draft, active, inactive
	SortBy     string   `json:"sortBy"` // relevance, title, type
	SortOrder  string   `json:"sortOrder"`
	MaxResults int      `json:"maxResults"`
}

// SearchService ranks entities against a free-text query.
type SearchService struct {
	stores *store.Registry
}

func NewSearchService(stores *store.Registry) *SearchService {
	return &SearchService{stores: stores}
}

// ScoreText computes the 0-100 relevance of text for query. The steps and
// constants are a compatibility contract:
//  1. case-insensitive exact match scores 100
//  2. substring match scores max(50, 80-index)
//  3. word overlap: all words 40, some words 20+ratio*20, none 0
func ScoreText(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(text)
	if q == "" || t == "" {
		return 0
	}

	if t == q {
		return 100
	}

	if idx := strings.Index(t, q); idx >= 0 {
		score := float64(80 - idx)
		if score < 50 {
			score = 50
		}
		return score
	}

	words := strings.Fields(q)
	matched := 0
	for _, word := range words {
		if strings.Contains(t, word) {
			matched++
		}
	}
	switch {
	case matched == 0:
		return 0
	case matched == len(words):
		return 40
	default:
		return 20 + float64(matched)/float64(len(words))*20
	}
}

// scoreFields is the entity score: the max over its candidate fields.
func scoreFields(query string, fields ...string) float64 {
	best := 0.0
	for _, field := range fields {
		if score := ScoreText(query, field); score > best {
			best = score
		}
	}
	return best
}

func (o SearchOptions) wantsType(entityType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == entityType {
			return true
		}
	}
	return false
}

// Search ranks every entity against the query, applies facet filters,
// sorts and truncates.
func (s *SearchService) Search(opts SearchOptions) []SearchResult {
	results := []SearchResult{}

	if opts.wantsType("course") {
		for _, course := range s.stores.Courses.FetchAll() {
			if opts.Category != "" && !strings.EqualFold(course.Category, opts.Category) {
				continue
			}
			if opts.Level != "" && !strings.EqualFold(course.Level, opts.Level) {
				continue
			}
			if course.Price < opts.MinPrice {
				continue
			}
			if opts.MaxPrice > 0 && course.Price > opts.MaxPrice {
				continue
			}
			if opts.Status == "published" && !course.IsPublished {
				continue
			}
			if opts.Status == "draft" && course.IsPublished {
				continue
			}

			score := scoreFields(opts.Query, course.Title, course.Description,
				course.Category, course.InstructorName, strings.Join(course.Tags, " "))
			if score > 0 {
				results = append(results, SearchResult{
					Type: "course", ID: course.ID, Title: course.Title,
					Description: course.Description, Subtitle: course.InstructorName,
					Score: score,
				})
			}
		}
	}

	if opts.wantsType("module") {
		for _, module := range s.stores.Modules.FetchAll() {
			if opts.Status == "published" && !module.IsPublished {
				continue
			}
			if opts.Status == "draft" && module.IsPublished {
				continue
			}

			score := scoreFields(opts.Query, module.Title, module.Description)
			if score > 0 {
				subtitle := ""
				if course, ok := s.stores.Courses.FetchByID(module.CourseID); ok {
					subtitle = course.Title
				}
				results = append(results, SearchResult{
					Type: "module", ID: module.ID, Title: module.Title,
					Description: module.Description, Subtitle: subtitle, Score: score,
				})
			}
		}
	}

	if opts.wantsType("lecture") {
		for _, lecture := range s.stores.Lectures.FetchAll() {
			if opts.Status == "published" && !lecture.IsPublished {
				continue
			}
			if opts.Status == "draft" && lecture.IsPublished {
				continue
			}

			score := scoreFields(opts.Query, lecture.Title, lecture.Description)
			if score > 0 {
				subtitle := ""
				if module, ok := s.stores.Modules.FetchByID(lecture.ModuleID); ok {
					subtitle = module.Title
				}
				results = append(results, SearchResult{
					Type: "lecture", ID: lecture.ID, Title: lecture.Title,
					Description: lecture.Description, Subtitle: subtitle, Score: score,
				})
			}
		}
	}

	if opts.wantsType("quiz") {
		for _, quiz := range s.stores.Quizzes.FetchAll() {
			if opts.Status == "published" && !quiz.IsPublished {
				continue
			}
			if opts.Status == "draft" && quiz.IsPublished {
				continue
			}

			score := scoreFields(opts.Query, quiz.Title, quiz.Description)
			if score > 0 {
				results = append(results, SearchResult{
					Type: "quiz", ID: quiz.ID, Title: quiz.Title,
					Description: quiz.Description,
					Subtitle:    strconv.Itoa(len(quiz.Questions)) + " questions",
					Score:       score,
				})
			}
		}
	}

	if opts.wantsType("user") {
		for _, user := range s.stores.Users.FetchAll() {
			if opts.Role != "" && !strings.EqualFold(user.RoleName, opts.Role) {
				continue
			}
			if opts.Status == "active" && !user.IsActive {
				continue
			}
			if opts.Status == "inactive" && user.IsActive {
				continue
			}

			score := scoreFields(opts.Query, user.Name, user.Email, user.Username)
			if score > 0 {
				results = append(results, SearchResult{
					Type: "user", ID: user.ID, Title: user.Name,
					Description: user.Email, Subtitle: user.RoleName, Score: score,
				})
			}
		}
	}

	sortResults(results, opts.SortBy, opts.SortOrder)

	max := opts.MaxResults
	if max <= 0 {
		max = 50
	}
	if len(results) > max {
		results = results[:max]
	}
	return results
}

func sortResults(results []SearchResult, sortBy, sortOrder string) {
	asc := sortOrder == "asc"

	less := func(i, j int) bool { return results[i].Score > results[j].Score }
	switch sortBy {
	case "title":
		less = func(i, j int) bool { return results[i].Title < results[j].Title }
		if !asc && sortOrder != "" {
			less = func(i, j int) bool { return results[i].Title > results[j].Title }
		}
	case "type":
		less = func(i, j int) bool { return results[i].Type < results[j].Type }
		if !asc && sortOrder != "" {
			less = func(i, j int) bool { return results[i].Type > results[j].Type }
		}
	default: // relevance
		if asc {
			less = func(i, j int) bool { return results[i].Score < results[j].Score }
		}
	}

	sort.SliceStable(results, less)
}

// ExportCSV renders results in the export format: every string field
// double-quoted, embedded quotes doubled.
func ExportCSV(results []SearchResult) string {
	var b strings.Builder
	b.WriteString("Type,Title,Description,Subtitle,Score\n")

	for _, r := range results {
		b.WriteString(csvQuote(r.Type))
		b.WriteByte(',')
		b.WriteString(csvQuote(r.Title))
		b.WriteByte(',')
		b.WriteString(csvQuote(r.Description))
		b.WriteByte(',')
		b.WriteString(csvQuote(r.Subtitle))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(r.Score, 'f', -1, 64))
		b.WriteByte('\n')
	}

	return b.String()
}

func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// CSVFilename is the download name for a search export.
func CSVFilename() string {
	return "search_results_" + time.Now().Format("2006-01-02") + ".csv"
}
