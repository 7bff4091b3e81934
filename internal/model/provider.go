package model

import "encoding/json"

// ProviderKind discriminates the shapes a provider field can take in
// real exports: absent entirely, a plain string, or a structured object
// with name/code (and other fields we ignore).
type ProviderKind int

const (
	ProviderAbsent ProviderKind = iota
	ProviderPlain
	ProviderStructured
)

// Provider is the tagged-variant representation of a transportation
// provider. All shape tolerance lives in UnmarshalJSON; downstream
// formatting only ever calls Display.
type Provider struct {
	Kind ProviderKind
	Name string
	Code string
}

// Display resolves the human-readable provider label: the plain string,
// or a structured provider's name with code as fallback. Absent
// providers display as the empty string.
func (p Provider) Display() string {
	switch p.Kind {
	case ProviderPlain:
		return p.Name
	case ProviderStructured:
		if p.Name != "" {
			return p.Name
		}
		return p.Code
	default:
		return ""
	}
}

func (p *Provider) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*p = Provider{}
			return nil
		}
		*p = Provider{Kind: ProviderPlain, Name: s}
		return nil
	}

	var obj struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Name == "" && obj.Code == "" {
			*p = Provider{}
			return nil
		}
		*p = Provider{Kind: ProviderStructured, Name: obj.Name, Code: obj.Code}
		return nil
	}

	// Null or an unrecognized shape: treat as absent rather than
	// failing the whole document decode.
	*p = Provider{}
	return nil
}

// LooseString is a string field that tolerates non-string JSON values.
// Real exports occasionally carry a number or null where a string
// belongs; those decode to "" so the record degrades instead of
// aborting the whole document.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = LooseString(v)
	return nil
}

func (p Provider) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ProviderPlain:
		return json.Marshal(p.Name)
	case ProviderStructured:
		return json.Marshal(struct {
			Name string `json:"name,omitempty"`
			Code string `json:"code,omitempty"`
		}{Name: p.Name, Code: p.Code})
	default:
		return []byte("null"), nil
	}
}
