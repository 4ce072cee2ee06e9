package service

import (
	"context"
	"encoding/json"
	"engolo_backend/internal/config"
	"engolo_backend/internal/engine"
	"engolo_backend/pkg/logger"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DictionaryService proxies the external dictionary/translation API. Outbound
// calls are rate limited so a burst of lookups cannot exhaust the upstream
// quota, and every call carries the configured timeout.
type DictionaryService struct {
	cfg     config.DictionaryConfig
	http    *http.Client
	limiter *rate.Limiter
}

func NewDictionaryService(cfg config.DictionaryConfig) *DictionaryService {
	return &DictionaryService{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Definition is one sense of a looked-up word.
type Definition struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
	Example      string `json:"example,omitempty"`
}

// DictionaryEntry is the normalized lookup result.
type DictionaryEntry struct {
	Word        string       `json:"word"`
	Phonetic    string       `json:"phonetic,omitempty"`
	Definitions []Definition `json:"definitions"`
}

func (s *DictionaryService) get(ctx context.Context, rawURL string, v interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dictionary: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Lookup fetches definitions for a word in the given language.
func (s *DictionaryService) Lookup(ctx context.Context, lang, word string) (*DictionaryEntry, error) {
	var raw []struct {
		Word     string `json:"word"`
		Phonetic string `json:"phonetic"`
		Meanings []struct {
			PartOfSpeech string `json:"partOfSpeech"`
			Definitions  []struct {
				Definition string `json:"definition"`
				Example    string `json:"example"`
			} `json:"definitions"`
		} `json:"meanings"`
	}

	u := fmt.Sprintf("%s/%s/%s", s.cfg.BaseURL, url.PathEscape(lang), url.PathEscape(word))
	if err := s.get(ctx, u, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("dictionary: no entry for %q", word)
	}

	entry := &DictionaryEntry{Word: raw[0].Word, Phonetic: raw[0].Phonetic}
	for _, m := range raw[0].Meanings {
		for _, d := range m.Definitions {
			entry.Definitions = append(entry.Definitions, Definition{
				PartOfSpeech: m.PartOfSpeech,
				Definition:   d.Definition,
				Example:      d.Example,
			})
		}
	}
	return entry, nil
}

// Translate resolves a word into the learner's target language.
func (s *DictionaryService) Translate(ctx context.Context, from, to, text string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+to)

	var raw struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := s.get(ctx, s.cfg.TranslateURL+"?"+q.Encode(), &raw); err != nil {
		return "", err
	}
	if raw.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("dictionary: empty translation for %q", text)
	}
	return raw.ResponseData.TranslatedText, nil
}

// backfillWords is the pool vocabulary backfill draws from. Distractors come
// from the same pool, so a generated question always has plausible options.
var backfillWords = []struct{ english, spanish string }{
	{"apple", "manzana"},
	{"house", "casa"},
	{"friend", "amigo"},
	{"school", "escuela"},
	{"morning", "mañana"},
	{"window", "ventana"},
	{"street", "calle"},
	{"family", "familia"},
	{"garden", "jardín"},
	{"kitchen", "cocina"},
}

// VocabularyExercises builds up to n multiple-choice vocabulary exercises.
// Translations come from the external API when reachable, otherwise from the
// built-in word pool, so module backfill keeps working offline.
func (s *DictionaryService) VocabularyExercises(ctx context.Context, n int) ([]engine.Exercise, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > len(backfillWords) {
		n = len(backfillWords)
	}

	picks := rand.Perm(len(backfillWords))[:n]
	out := make([]engine.Exercise, 0, n)

	for _, idx := range picks {
		w := backfillWords[idx]
		answer := w.spanish

		if s.cfg.TranslateURL != "" {
			if translated, err := s.Translate(ctx, "en", "es", w.english); err == nil {
				answer = translated
			} else {
				logger.Log.Debug("translate fallback to word pool",
					zap.String("word", w.english), zap.Error(err))
			}
		}

		options := []string{answer}
		for _, d := range rand.Perm(len(backfillWords)) {
			if len(options) == 4 {
				break
			}
			// A translated answer can coincide with a pool word, so filter
			// distractors against the answer itself.
			if opt := backfillWords[d].spanish; opt != answer && opt != w.spanish {
				options = append(options, opt)
			}
		}
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		out = append(out, engine.Exercise{
			ID:            fmt.Sprintf("dict-%s", w.english),
			Type:          engine.Vocabulary,
			Question:      fmt.Sprintf("Which word means '%s'?", w.english),
			Options:       options,
			CorrectAnswer: answer,
			Difficulty:    "beginner",
		})
	}
	return out, nil
}
