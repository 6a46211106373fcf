package main

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/tailscale/hujson"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Param is a query parameter or header of a Profile.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Profile describes a request. Profiles are read from HuJSON files:
//
//	{
//		"host": "https://localhost:5000",
//		"endpointPath": "Test/NumbersStream",
//		"query": [{"name": "delay", "value": "100"}],
//	}
type Profile struct {
	Host         string  `json:"host"`
	EndpointPath string  `json:"endpointPath"`
	Method       string  `json:"method"`
	Query        []Param `json:"query"`
	Headers      []Param `json:"headers"`
	Body         string  `json:"body"`
	TokenFile    string  `json:"tokenFile"`
}

func LoadProfile(name string) (*Profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	p := &Profile{}
	if err := json.Unmarshal(std, p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

// apply overrides the profile with the values given on the command line.
// Query parameters and headers are added after those of the profile.
func (p *Profile) apply(f *globalFlags) error {
	if f.host != "" {
		p.Host = f.host
	}
	if f.path != "" {
		p.EndpointPath = f.path
	}
	if f.method != "" {
		p.Method = f.method
	}
	if f.body != "" {
		p.Body = f.body
	}
	for _, q := range f.query {
		name, value, err := splitPair(q, "=")
		if err != nil {
			return fmt.Errorf("query parameter %w", err)
		}
		p.Query = append(p.Query, Param{name, value})
	}
	for _, h := range f.headers {
		name, value, err := splitPair(h, ":")
		if err != nil {
			return fmt.Errorf("header %w", err)
		}
		p.Headers = append(p.Headers, Param{name, value})
	}
	return nil
}

// Request configures a new Request of rc.
func (p *Profile) Request(rc *rest.Client) *rest.Request {
	req := rc.Host(p.Host).SetEndpointPath(p.EndpointPath).SetBody(p.Body)
	if p.Method != "" {
		req.SetMethod(p.Method)
	}
	for _, q := range p.Query {
		req.AddOrSetQueryParameter(q.Name, q.Value)
	}
	for _, h := range p.Headers {
		req.AddOrSetHeader(h.Name, h.Value)
	}
	return req
}
