package service

import (
	"strings"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/pkg/config"
)

// queryTypeRules assign the query type by first match, a deliberate
// precedence policy: a query containing both "what" and "how" is a
// definition because that rule runs first.
var queryTypeRules = []struct {
	label string
	words []string
}{
	{domain.QueryTypeDefinition, []string{"what", "definition", "meaning", "explain"}},
	{domain.QueryTypeProcess, []string{"how", "process", "step", "procedure"}},
	{domain.QueryTypeCriteria, []string{"eligibility", "criteria", "qualify", "who can"}},
	{domain.QueryTypeList, []string{"list", "types", "options", "available"}},
}

// IntentClassifier maps a raw query to a topic and query type using
// keyword scoring over the configured taxonomy.
type IntentClassifier struct {
	topics []config.TopicKeywords
}

// NewIntentClassifier creates a classifier over the given topic table.
// Table order decides ties: the first topic reaching the maximum score wins.
func NewIntentClassifier(topics []config.TopicKeywords) *IntentClassifier {
	return &IntentClassifier{topics: topics}
}

// Classify scores case-insensitive substring matches per topic keyword list.
// The topic with the highest nonzero score wins; all-zero scores yield
// "general". The returned topic is never empty.
func (c *IntentClassifier) Classify(query string) domain.IntentInfo {
	q := strings.ToLower(query)

	scores := make(map[string]int)
	var matched []string
	topic := domain.TopicGeneral
	best := 0

	for _, t := range c.topics {
		score := 0
		for _, kw := range t.Keywords {
			if strings.Contains(q, kw) {
				score++
				matched = append(matched, kw)
			}
		}
		if score == 0 {
			continue
		}
		scores[t.Name] = score
		if score > best {
			topic = t.Name
			best = score
		}
	}

	return domain.IntentInfo{
		Topic:           topic,
		QueryType:       classifyQueryType(q),
		IntentScores:    scores,
		MatchedKeywords: matched,
	}
}

func classifyQueryType(lowered string) string {
	for _, rule := range queryTypeRules {
		for _, w := range rule.words {
			if strings.Contains(lowered, w) {
				return rule.label
			}
		}
	}
	return domain.QueryTypeGeneral
}
