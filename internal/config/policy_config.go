package config

type PolicyConfig interface {
	// GetRoutePolicyFile returns the path of a YAML route policy table, or "" for the built-in table.
	GetRoutePolicyFile() string
}

type Policy struct{}

var _ PolicyConfig = Policy{}

func (Policy) GetRoutePolicyFile() string {
	return GetEnv("ROUTE_POLICY_FILE", "")
}
