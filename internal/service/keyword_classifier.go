package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ErrNoCategoryMatch is returned when no lexicon keyword occurs in the text.
var ErrNoCategoryMatch = errors.New("keyword_classifier: no category matches")

// LexiconCategory lists the words that signal one food category
type LexiconCategory struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon is the vocabulary used by KeywordClassifier. Category names must
// use the same spelling as the reference dataset's food-type column.
type Lexicon struct {
	Categories []LexiconCategory `yaml:"categories"`
}

// DefaultLexicon covers the categories of the published training data.
func DefaultLexicon() Lexicon {
	return Lexicon{Categories: []LexiconCategory{
		{Name: "meat", Keywords: []string{
			"meat", "chicken", "mutton", "lamb", "goat", "beef", "pork", "bacon", "ham", "sausage",
			"turkey", "duck", "fish", "prawn", "shrimp", "crab", "seafood", "egg", "kebab", "keema",
		}},
		{Name: "vegetables", Keywords: []string{
			"vegetable", "veg", "veggie", "salad", "potato", "aloo", "gobi", "cauliflower", "spinach",
			"palak", "dal", "lentil", "bhindi", "okra", "cabbage", "carrot", "pea", "mushroom", "sabzi",
			"corn", "bean", "chole", "chana", "rajma", "brinjal", "baingan",
		}},
		{Name: "fruits", Keywords: []string{
			"fruit", "apple", "banana", "mango", "orange", "grape", "melon", "watermelon", "pineapple",
			"papaya", "berry", "berrie", "strawberry", "pomegranate", "guava", "kiwi",
		}},
		{Name: "baked goods", Keywords: []string{
			"bread", "naan", "roti", "kulcha", "cake", "pastry", "pastrie", "cookie", "biscuit", "bun",
			"muffin", "croissant", "pie", "pizza", "puff", "baguette", "donut", "brownie", "baked",
		}},
		{Name: "dairy products", Keywords: []string{
			"dairy", "paneer", "cheese", "milk", "curd", "yogurt", "yoghurt", "dahi", "butter", "ghee",
			"cream", "raita", "lassi", "kheer", "rasmalai", "khoa", "shrikhand",
		}},
	}}
}

// LoadLexicon reads a YAML lexicon file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("keyword_classifier: failed to read lexicon: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("keyword_classifier: invalid lexicon %s: %w", path, err)
	}
	return lex, nil
}

type keywordCategory struct {
	name     string
	phrase   string
	keywords map[string]struct{}
}

// KeywordClassifier is a local classifier scoring categories by the share of
// words in the text that are keywords of the category.
type KeywordClassifier struct {
	categories []keywordCategory
}

// NewKeywordClassifier builds a classifier from lex.
func NewKeywordClassifier(lex Lexicon) (*KeywordClassifier, error) {
	if len(lex.Categories) == 0 {
		return nil, errors.New("keyword_classifier: lexicon has no categories")
	}

	c := &KeywordClassifier{}
	seen := make(map[string]bool, len(lex.Categories))
	for _, cat := range lex.Categories {
		if cat.Name == "" {
			return nil, errors.New("keyword_classifier: lexicon category without a name")
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("keyword_classifier: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true

		kc := keywordCategory{
			name:     cat.Name,
			phrase:   strings.Join(tokenize(cat.Name), " "),
			keywords: make(map[string]struct{}, len(cat.Keywords)),
		}
		for _, kw := range cat.Keywords {
			for _, tok := range tokenize(kw) {
				kc.keywords[tok] = struct{}{}
			}
		}
		c.categories = append(c.categories, kc)
	}
	return c, nil
}

// Classify implements domain.Classifier.
func (c *KeywordClassifier) Classify(ctx context.Context, text string) (string, error) {
	category, _, err := c.match(text)
	return category, err
}

// MatchBestCategory implements domain.Classifier. The score is in [0, 1].
func (c *KeywordClassifier) MatchBestCategory(ctx context.Context, text string) (string, float64, error) {
	return c.match(text)
}

func (c *KeywordClassifier) match(text string) (string, float64, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", 0, fmt.Errorf("%w: empty text", ErrNoCategoryMatch)
	}

	phrase := strings.Join(tokens, " ")
	for _, cat := range c.categories {
		if phrase == cat.phrase {
			return cat.name, 1, nil
		}
	}

	best, bestScore := "", 0.0
	for _, cat := range c.categories {
		hits := 0
		for _, tok := range tokens {
			if cat.has(tok) {
				hits++
			}
		}
		// ties keep the earlier category
		if score := float64(hits) / float64(len(tokens)); score > bestScore {
			best, bestScore = cat.name, score
		}
	}

	if best == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrNoCategoryMatch, text)
	}
	return best, bestScore, nil
}

func (k keywordCategory) has(tok string) bool {
	for _, form := range []string{tok, strings.TrimSuffix(tok, "es"), strings.TrimSuffix(tok, "s")} {
		if _, ok := k.keywords[form]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
