package loadtest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Profile is an optional JSON load profile; any field left out keeps the
// value from the command line.
//
//	{
//	  "users": 50,
//	  "durationSeconds": 120,
//	  "rampUpSeconds": 15,
//	  "thinkTimeMillis": 250,
//	  "weights": {"login": 5, "addDomain": 2}
//	}
type Profile struct {
	Users           ldvalue.OptionalInt `json:"users,omitempty"`
	DurationSeconds ldvalue.OptionalInt `json:"durationSeconds,omitempty"`
	RampUpSeconds   ldvalue.OptionalInt `json:"rampUpSeconds,omitempty"`
	ThinkTimeMillis ldvalue.OptionalInt `json:"thinkTimeMillis,omitempty"`
	Weights         TaskWeightTable     `json:"weights,omitempty"`
}

func LoadProfile(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading load profile: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing load profile %s: %w", path, err)
	}
	return p, nil
}

// Apply overrides cfg with the profile's populated fields.
func (p Profile) Apply(cfg *Config) {
	if p.Users.IsDefined() {
		cfg.Users = p.Users.IntValue()
	}
	if p.DurationSeconds.IsDefined() {
		cfg.Duration = time.Duration(p.DurationSeconds.IntValue()) * time.Second
	}
	if p.RampUpSeconds.IsDefined() {
		cfg.RampUp = time.Duration(p.RampUpSeconds.IntValue()) * time.Second
	}
	if p.ThinkTimeMillis.IsDefined() {
		cfg.ThinkTime = time.Duration(p.ThinkTimeMillis.IntValue()) * time.Millisecond
	}
	if len(p.Weights) > 0 {
		cfg.Weights = p.Weights
	}
}
