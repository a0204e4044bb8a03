package config

type JaegerConfig struct {
	Service   string `yaml:"service-name"`
	AgentHost string `yaml:"agent-host"`
}

func (s *JaegerConfig) ServiceName() string {
	return s.Service
}

func (s *JaegerConfig) AgentHostPort() string {
	return s.AgentHost
}
