package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// ParseResult turns the model's raw JSON text into a validated result.
// The body must satisfy ResponseSchema; every scheme must carry non-empty
// required fields and the summary must be non-empty. Missing eligibility
// criteria become an empty list, duplicate ids keep the last entry, and
// anything past limit is dropped. Ranking order is otherwise untouched.
func ParseResult(raw string, limit int) (*domain.RecommendationResult, error) {
	data, instance, err := decodeJSON([]byte(stripCodeFence(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	rs, err := resolvedSchema()
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	if err := rs.Validate(instance); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var doc domain.RecommendationResult
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return normalize(doc, limit)
}

func normalize(doc domain.RecommendationResult, limit int) (*domain.RecommendationResult, error) {
	out := &domain.RecommendationResult{
		Schemes: make([]domain.Scheme, 0, len(doc.Schemes)),
		Summary: strings.TrimSpace(doc.Summary),
	}
	if out.Summary == "" {
		return nil, errors.New("empty summary")
	}

	byID := make(map[string]int, len(doc.Schemes))
	for _, s := range doc.Schemes {
		s = cleanScheme(s)
		if err := s.Check(); err != nil {
			return nil, err
		}
		if prev, dup := byID[s.ID]; dup {
			out.Schemes = append(out.Schemes[:prev], out.Schemes[prev+1:]...)
			for id, idx := range byID {
				if idx > prev {
					byID[id] = idx - 1
				}
			}
		}
		byID[s.ID] = len(out.Schemes)
		out.Schemes = append(out.Schemes, s)
	}

	if limit > 0 && len(out.Schemes) > limit {
		out.Schemes = out.Schemes[:limit]
	}
	return out, nil
}

func cleanScheme(s domain.Scheme) domain.Scheme {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Department = strings.TrimSpace(s.Department)
	s.Description = strings.TrimSpace(s.Description)
	s.Benefits = strings.TrimSpace(s.Benefits)
	s.ApplicationProcess = strings.TrimSpace(s.ApplicationProcess)
	s.Link = strings.TrimSpace(s.Link)

	criteria := make([]string, 0, len(s.EligibilityCriteria))
	for _, c := range s.EligibilityCriteria {
		if c = strings.TrimSpace(c); c != "" {
			criteria = append(criteria, c)
		}
	}
	s.EligibilityCriteria = criteria
	return s
}

// decodeJSON unmarshals data into a generic value, repairing malformed JSON
// when the first attempt fails with a syntax error. It returns the bytes
// that were finally decoded.
func decodeJSON(data []byte) ([]byte, any, error) {
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		return data, v, nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, nil, err
	}
	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return nil, nil, fmt.Errorf("%w (repair: %v)", err, rerr)
	}
	if err := json.Unmarshal([]byte(fixed), &v); err != nil {
		return nil, nil, err
	}
	return []byte(fixed), v, nil
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return string(bytes.TrimSpace([]byte(s)))
}
