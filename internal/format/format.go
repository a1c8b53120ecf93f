// Package format renders a run result as JSON, a Markdown digest, or
// Slack Block Kit JSON.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kwestin/newsdesk/internal/news"
)

const (
	sectionLimit    = 5
	slackStoryLimit = 10
)

// Format renders a result in the named format. Unknown formats fall
// back to JSON.
func Format(result *news.Result, formatType string) (string, error) {
	switch strings.ToLower(formatType) {
	case "md", "markdown":
		return Markdown(result), nil
	case "slack":
		return Slack(result)
	default:
		return JSON(result)
	}
}

// JSON renders the machine-readable contract.
func JSON(result *news.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data), nil
}

// Markdown renders a human-readable digest: scan summary, top signal,
// then stories sectioned by coverage and category.
func Markdown(result *news.Result) string {
	var b strings.Builder
	meta := result.Meta
	stories := result.Stories

	b.WriteString("# 📰 News Briefing\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "📊 **Scan Summary**: %d sources • %d items fetched • %d unique stories (%d merged)\n",
		meta.SourcesScanned, meta.RawItems, meta.AfterDedup, meta.DuplicatesMerged)

	if len(stories) > 0 && stories[0].SourceCount > 1 {
		fmt.Fprintf(&b, "🔝 **Top Signal**: %q covered by %d sources\n",
			stories[0].Title, stories[0].SourceCount)
	}
	b.WriteString("---\n\n")

	var multi, dual, single []*news.Story
	for _, s := range stories {
		switch {
		case s.SourceCount >= 3:
			multi = append(multi, s)
		case s.SourceCount == 2:
			dual = append(dual, s)
		default:
			single = append(single, s)
		}
	}

	writeSection(&b, "## 🔥 Top Stories (Multi-Source Coverage)", multi, true)
	writeSection(&b, "## 📈 Trending", dual, true)

	if len(single) > 0 {
		var tech, global, finance []*news.Story
		for _, s := range single {
			switch {
			case isTechStory(s):
				tech = append(tech, s)
			case isGlobalStory(s):
				global = append(global, s)
			case isFinanceStory(s):
				finance = append(finance, s)
			}
		}
		writeSection(&b, "## 🤖 Tech & AI", tech, false)
		writeSection(&b, "## 🌍 Global Headlines", global, false)
		writeSection(&b, "## 💰 Markets & Finance", finance, false)
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Generated at %s*", meta.FetchedAt)
	return b.String()
}

func writeSection(b *strings.Builder, heading string, stories []*news.Story, multiSource bool) {
	if len(stories) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for i, s := range stories {
		if i >= sectionLimit {
			break
		}
		writeStoryMarkdown(b, s, i+1, multiSource)
	}
	b.WriteString("\n")
}

func writeStoryMarkdown(b *strings.Builder, s *news.Story, index int, multiSource bool) {
	fmt.Fprintf(b, "### %d. [%s](%s)\n", index, s.Title, s.URL)

	if multiSource {
		parts := make([]string, 0, len(s.Sources))
		for _, source := range s.Sources {
			if heat := s.Heat[news.SourceKey(source)]; heat != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", source, heat))
			} else {
				parts = append(parts, source)
			}
		}
		fmt.Fprintf(b, "**🔥 Covered by %d sources**: %s\n", len(s.Sources), strings.Join(parts, " • "))
	} else {
		source := "Unknown"
		if len(s.Sources) > 0 {
			source = s.Sources[0]
		}
		parts := []string{fmt.Sprintf("**Source**: %s", source)}
		if s.Time != "" {
			parts = append(parts, fmt.Sprintf("**Time**: %s", s.Time))
		}
		if heat := firstHeat(s); heat != "" {
			parts = append(parts, fmt.Sprintf("**Heat**: %s", heat))
		}
		b.WriteString(strings.Join(parts, " | ") + "\n")
	}
	b.WriteString("\n")
}

func firstHeat(s *news.Story) string {
	for _, source := range s.Sources {
		if heat := s.Heat[news.SourceKey(source)]; heat != "" {
			return heat
		}
	}
	for _, heat := range s.Heat {
		if heat != "" {
			return heat
		}
	}
	return ""
}

var (
	techSources = []string{
		"hacker news", "github", "techcrunch", "ars technica", "the verge",
		"reddit r/technology", "reddit r/programming", "product hunt",
	}
	globalSources  = []string{"bbc", "reuters", "ap news"}
	financeSources = []string{"bloomberg", "yahoo finance", "cnbc", "reddit stocks"}
)

func isTechStory(s *news.Story) bool {
	for _, source := range s.Sources {
		lower := strings.ToLower(source)
		for _, t := range techSources {
			if lower == t {
				return true
			}
		}
	}
	return false
}

func isGlobalStory(s *news.Story) bool {
	return matchesAny(s, globalSources)
}

func isFinanceStory(s *news.Story) bool {
	return matchesAny(s, financeSources)
}

func matchesAny(s *news.Story, needles []string) bool {
	for _, source := range s.Sources {
		lower := strings.ToLower(source)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Slack renders Block Kit JSON ready to post to Slack's API.
func Slack(result *news.Result) (string, error) {
	meta := result.Meta
	stories := result.Stories

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📰 News Briefing", Emoji: true},
		},
		{
			Type: "context",
			Elements: []slackText{{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%d* stories from *%d* sources | %s",
					meta.AfterDedup, meta.SourcesScanned, meta.FetchedAt),
			}},
		},
		{Type: "divider"},
	}

	for i, s := range stories {
		if i >= slackStoryLimit {
			break
		}
		blocks = append(blocks, slackStoryBlock(s))
	}

	if len(stories) > slackStoryLimit {
		blocks = append(blocks, slackBlock{
			Type: "context",
			Elements: []slackText{{
				Type: "mrkdwn",
				Text: fmt.Sprintf("_...and %d more stories_", len(stories)-slackStoryLimit),
			}},
		})
	}

	data, err := json.MarshalIndent(map[string][]slackBlock{"blocks": blocks}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding slack blocks: %w", err)
	}
	return string(data), nil
}

func slackStoryBlock(s *news.Story) slackBlock {
	var text string
	if s.SourceCount > 1 {
		shown := s.Sources
		suffix := ""
		if len(shown) > 3 {
			suffix = fmt.Sprintf(" +%d", len(shown)-3)
			shown = shown[:3]
		}
		text = fmt.Sprintf("*<%s|%s>*\n🔥 %d sources: %s%s",
			s.URL, s.Title, s.SourceCount, strings.Join(shown, ", "), suffix)
	} else {
		source := "Unknown"
		if len(s.Sources) > 0 {
			source = s.Sources[0]
		}
		text = fmt.Sprintf("*<%s|%s>*\n%s", s.URL, s.Title, source)
		if s.Time != "" {
			text += " • " + s.Time
		}
	}

	return slackBlock{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: text},
	}
}
