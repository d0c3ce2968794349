package webstatus

import (
	"bytes"
	"encoding/json"
)

// Feature is one record of the web-status catalog.
//
// Every field except FeatureID and Name is optional. Values the provider
// sends in an unexpected shape decode as absent rather than failing the
// whole catalog.
type Feature struct {
	FeatureID              string                           `json:"feature_id"`
	Name                   string                           `json:"name"`
	Description            string                           `json:"description,omitempty"`
	Spec                   Ref                              `json:"spec,omitempty"`
	Caniuse                Ref                              `json:"caniuse,omitempty"`
	MDNURL                 Ref                              `json:"mdn_url,omitempty"`
	Baseline               *Baseline                        `json:"baseline,omitempty"`
	BrowserImplementations map[string]BrowserImplementation `json:"browser_implementations,omitempty"`
	UsageStats             map[string]float64               `json:"usage_stats,omitempty"`
}

// URL is the feature's page on webstatus.dev.
func (f *Feature) URL() string {
	return "https://webstatus.dev/features/" + f.FeatureID
}

// Baseline is the provider's raw classification. Status is one of
// "widely", "newly", "limited", or empty when the provider sent null.
type Baseline struct {
	Status   string `json:"status,omitempty"`
	LowDate  string `json:"low_date,omitempty"`
	HighDate string `json:"high_date,omitempty"`
}

// Raw baseline statuses.
const (
	RawWidely  = "widely"
	RawNewly   = "newly"
	RawLimited = "limited"
)

// BrowserImplementation is the shipping state of a feature in one browser.
// Status is "available", "unavailable" or "partial".
type BrowserImplementation struct {
	Version string `json:"version,omitempty"`
	Status  string `json:"status"`
	Date    string `json:"date,omitempty"`
}

// Ref is an external reference: a URL or id. It decodes from a plain
// string, from {"link": ...}, from {"links": [{"link": ...}]}, or from an
// array of either, keeping the first link found.
type Ref string

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref(firstLink(data))
	return nil
}

func firstLink(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			return s
		}
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(data, &items) == nil {
			for _, item := range items {
				if s := firstLink(item); s != "" {
					return s
				}
			}
		}
	case '{':
		var obj struct {
			Link  json.RawMessage `json:"link"`
			Links json.RawMessage `json:"links"`
			ID    json.RawMessage `json:"id"`
		}
		if json.Unmarshal(data, &obj) == nil {
			for _, v := range []json.RawMessage{obj.Link, obj.Links, obj.ID} {
				if s := firstLink(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// page is one response of the catalog endpoint. Records are kept raw so
// that one malformed record does not discard the rest.
type page struct {
	Data     []json.RawMessage `json:"data"`
	Metadata struct {
		NextPageToken string `json:"next_page_token"`
		Total         int    `json:"total"`
	} `json:"metadata"`
}
