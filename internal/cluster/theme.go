package cluster

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/xxxsen/docindex/internal/model"
)

// Theme is the human-readable identity derived for one cluster.
type Theme struct {
	Name        string
	Description string
	FolderName  string
	Category    model.Category
	Keywords    []string
}

var categoryKeywords = map[model.Category][]string{
	model.CategoryWork: {
		"meeting", "report", "project", "budget", "proposal",
		"contract", "client", "agenda", "presentation", "quarterly",
	},
	model.CategoryPersonal: {
		"family", "vacation", "travel", "recipe", "health",
		"diary", "journal", "birthday", "wedding",
	},
	model.CategoryMedia: {
		"photo", "video", "image", "music", "movie",
		"audio", "screenshot", "podcast",
	},
	model.CategoryDocuments: {
		"invoice", "receipt", "statement", "form", "letter",
		"resume", "certificate", "manual", "policy",
	},
	model.CategoryArchive: {
		"backup", "archive", "old", "copy", "draft",
		"deprecated", "legacy",
	},
}

var themeStoplist = map[string]struct{}{
	"file":     {},
	"document": {},
	"untitled": {},
}

var nonWordRuns = regexp.MustCompile(`[^a-z0-9]+`)

type ThemeAnalyzer struct{}

func NewThemeAnalyzer() *ThemeAnalyzer {
	return &ThemeAnalyzer{}
}

// Analyze derives a name, folder suggestion, category and keyword set from
// the members' filenames and content previews. The result depends only on
// the membership and text, so repeated analysis of the same cluster is
// reproducible.
func (a *ThemeAnalyzer) Analyze(members []model.FileEmbeddingView) Theme {
	var contentBuf, nameBuf strings.Builder
	names := make([]string, 0, len(members))
	for _, member := range members {
		contentBuf.WriteString(strings.ToLower(member.Content))
		contentBuf.WriteByte(' ')
		lower := strings.ToLower(member.FileName)
		names = append(names, lower)
		nameBuf.WriteString(lower)
		nameBuf.WriteByte(' ')
	}
	category := scoreCategory(contentBuf.String(), nameBuf.String())
	keywords := extractKeywords(names)

	var name, folder string
	if len(keywords) > 0 {
		primary := capitalize(keywords[0])
		name = primary + " Collection"
		folder = primary
	} else {
		name = capitalize(string(category)) + " Files"
		folder = capitalize(string(category))
	}
	return Theme{
		Name:        name,
		Description: fmt.Sprintf("A group of %d related files", len(members)),
		FolderName:  folder,
		Category:    category,
		Keywords:    keywords,
	}
}

// FolderSuggestion names the destination folder for a structural cluster:
// the last segment of the existing path, suffixed " - Organized". The root
// sentinel gets no suggestion here; callers fall back to the theme name.
func FolderSuggestion(folderPath string) string {
	if folderPath == "" || folderPath == RootFolder {
		return ""
	}
	segments := strings.Split(strings.Trim(folderPath, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return ""
	}
	return last + " - Organized"
}

// scoreCategory awards 1 point per keyword found in the content preview and
// 2 per keyword found in a filename; filenames are the more deliberate
// signal. A category wins only with a strict unique maximum; ties and
// all-zero scores fall back to mixed.
func scoreCategory(content, filenames string) model.Category {
	scores := make(map[model.Category]int, len(categoryKeywords))
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if strings.Contains(content, keyword) {
				scores[category]++
			}
			if strings.Contains(filenames, keyword) {
				scores[category] += 2
			}
		}
	}
	best := model.CategoryMixed
	bestScore := 0
	tied := false
	for category, score := range scores {
		switch {
		case score > bestScore:
			best = category
			bestScore = score
			tied = false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return model.CategoryMixed
	}
	return best
}

// extractKeywords tokenizes the (already lowercased) filenames and keeps the
// three most frequent tokens that are long enough, not stoplisted, and
// occur at least max(2, 30% of filenames) times.
func extractKeywords(filenames []string) []string {
	freq := make(map[string]int)
	for _, name := range filenames {
		for _, token := range strings.Fields(nonWordRuns.ReplaceAllString(name, " ")) {
			if len(token) <= 3 {
				continue
			}
			if _, stopped := themeStoplist[token]; stopped {
				continue
			}
			freq[token]++
		}
	}
	threshold := 0.3 * float64(len(filenames))
	if threshold < 2 {
		threshold = 2
	}
	candidates := make([]string, 0, len(freq))
	for token, count := range freq {
		if float64(count) >= threshold {
			candidates = append(candidates, token)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if freq[candidates[i]] != freq[candidates[j]] {
			return freq[candidates[i]] > freq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
