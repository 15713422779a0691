package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TopicKeywords is one topic label with the keywords that vote for it.
// Order within the taxonomy matters: ties in keyword scoring resolve to
// the first topic in list order.
type TopicKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// FAQCategory holds canonical phrasings seeded into the chunk store so
// common question variants retrieve well even with few scraped documents.
type FAQCategory struct {
	Topic    string   `yaml:"topic"`
	Patterns []string `yaml:"patterns"`
}

// Templates are the fixed user-facing response strings.
type Templates struct {
	NoResults     string `yaml:"no_results"`
	ConfidenceLow string `yaml:"confidence_low"`
	Error         string `yaml:"error"`
	Fallback      string `yaml:"fallback"`
	Greeting      string `yaml:"greeting"`
}

// Taxonomy bundles the domain vocabulary: topic keyword lists, FAQ seed
// patterns and response templates.
type Taxonomy struct {
	Topics    []TopicKeywords `yaml:"topics"`
	FAQ       []FAQCategory   `yaml:"faq_patterns"`
	Templates Templates       `yaml:"templates"`
}

// LoadTaxonomy returns the built-in taxonomy, or the YAML file at path when
// path is non-empty. A partial file only overrides the sections it sets.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	tax := defaultTaxonomy()
	if path == "" {
		return tax, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var override Taxonomy
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(override.Topics) > 0 {
		tax.Topics = override.Topics
	}
	if len(override.FAQ) > 0 {
		tax.FAQ = override.FAQ
	}
	if override.Templates.NoResults != "" {
		tax.Templates.NoResults = override.Templates.NoResults
	}
	if override.Templates.ConfidenceLow != "" {
		tax.Templates.ConfidenceLow = override.Templates.ConfidenceLow
	}
	if override.Templates.Error != "" {
		tax.Templates.Error = override.Templates.Error
	}
	if override.Templates.Fallback != "" {
		tax.Templates.Fallback = override.Templates.Fallback
	}
	if override.Templates.Greeting != "" {
		tax.Templates.Greeting = override.Templates.Greeting
	}
	return tax, nil
}

func defaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Topics: []TopicKeywords{
			{Name: "eligibility", Keywords: []string{"eligibility", "criteria", "qualify", "qualification", "eligible", "who can"}},
			{Name: "registration", Keywords: []string{"register", "registration", "apply", "application", "how to register", "process"}},
			{Name: "funding", Keywords: []string{"funding", "fund", "money", "grant", "scheme", "financial", "investment", "loan"}},
			{Name: "tax_benefits", Keywords: []string{"tax", "exemption", "benefit", "deduction", "income tax", "relief"}},
			{Name: "documents", Keywords: []string{"document", "paperwork", "certificate", "proof", "required documents"}},
			{Name: "startup_definition", Keywords: []string{"what is startup", "startup meaning", "definition", "startup india"}},
		},
		FAQ: []FAQCategory{
			{Topic: "startup_definition", Patterns: []string{
				"what is startup india",
				"what is a startup",
				"startup definition",
				"startup meaning",
			}},
			{Topic: "eligibility", Patterns: []string{
				"eligibility criteria",
				"am i eligible",
				"who can apply",
				"qualification requirements",
				"eligible for startup",
			}},
			{Topic: "registration", Patterns: []string{
				"how to register",
				"registration process",
				"startup registration",
				"how to apply",
				"application process",
			}},
			{Topic: "funding", Patterns: []string{
				"funding options",
				"financial support",
				"grants available",
				"investment schemes",
				"money for startup",
			}},
			{Topic: "tax_benefits", Patterns: []string{
				"tax exemption",
				"tax benefits",
				"income tax",
				"tax relief",
				"taxation for startup",
			}},
			{Topic: "documents", Patterns: []string{
				"required documents",
				"what documents needed",
				"paperwork required",
				"application documents",
			}},
		},
		Templates: Templates{
			NoResults:     "I couldn't find specific information about your query in my knowledge base. Could you try rephrasing your question or ask about startup registration, eligibility criteria, or funding schemes?",
			ConfidenceLow: "Based on the available information, here's what I found (though I'm not completely certain this fully answers your question):",
			Error:         "I apologize, but I encountered an error while processing your request. Please try again or contact support if the issue persists.",
			Fallback:      "I can help you with questions about Startup India policies, registration procedures, eligibility criteria, funding schemes, and related topics. Please ask a more specific question.",
			Greeting:      "Hello! I'm StartupGuru, your AI assistant for Startup India information. How can I help you today?",
		},
	}
}
