package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/biztositok/biztositok-go/api"
)

// paramFlags are the call parameter flags shared by run and bench.
type paramFlags struct {
	file   string
	pairs  []string
	json   []string
	query  []string
	header []string
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.file, "params-file", "", "YAML or JSON file with call parameters")
	cmd.Flags().StringArrayVarP(&p.pairs, "param", "p", nil, "String parameter key=value (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&p.json, "json", "j", nil, "JSON parameter key=json (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&p.query, "query", "q", nil, "Query string parameter key=value (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&p.header, "header", "H", nil, "Extra header \"Key: Value\" (can be used multiple times)")
}

// params merges the parameter sources: the file first, then -p, then -j.
func (p *paramFlags) params() (api.Params, error) {
	params := api.Params{}

	if p.file != "" {
		data, err := os.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("read params file: %w", err)
		}
		// YAML is a superset of JSON, so both formats decode here
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("parse params file %s: %w", p.file, err)
		}
	}

	for _, pair := range p.pairs {
		key, value, err := splitPair(pair, "=")
		if err != nil {
			return nil, err
		}
		params[key] = value
	}

	for _, pair := range p.json {
		key, raw, err := splitPair(pair, "=")
		if err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("parameter %s is not valid JSON: %w", key, err)
		}
		params[key] = value
	}

	return params, nil
}

func (p *paramFlags) queryValues() (map[string]string, error) {
	return pairsToMap(p.query, "=")
}

func (p *paramFlags) headers() (map[string]string, error) {
	return pairsToMap(p.header, ":")
}

// callOptions turns the query and header flags into per call options.
func (p *paramFlags) callOptions() ([]api.CallOption, error) {
	query, err := p.queryValues()
	if err != nil {
		return nil, err
	}
	headers, err := p.headers()
	if err != nil {
		return nil, err
	}

	var opts []api.CallOption
	if len(query) > 0 {
		opts = append(opts, api.WithQuery(query))
	}
	for key, value := range headers {
		opts = append(opts, api.WithCallHeader(key, value))
	}
	return opts, nil
}

func pairsToMap(pairs []string, sep string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, err := splitPair(pair, sep)
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func splitPair(pair, sep string) (string, string, error) {
	key, value, ok := strings.Cut(pair, sep)
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid %q: expected key%svalue", pair, sep)
	}
	if sep == ":" {
		value = strings.TrimSpace(value)
	}
	return key, value, nil
}

// parseExtracts parses name=$.path flags.
func parseExtracts(specs []string) (map[string]string, error) {
	return pairsToMap(specs, "=")
}
