package config

const (
	defaultReporterGroup = "ledger-reporter"
	defaultRequestsTopic = "ledger-report-requests"
)

// KafkaConfig is optional. Without brokers the bot builds reports inline.
type KafkaConfig struct {
	BrokerAddrs []string `yaml:"brokers"`
	Group       string   `yaml:"consumer-group"`
	Topic       string   `yaml:"reports-topic"`
}

func (s *KafkaConfig) Enabled() bool {
	return len(s.BrokerAddrs) > 0
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerAddrs
}

func (s *KafkaConfig) ConsumerGroup() string {
	if s.Group == "" {
		return defaultReporterGroup
	}
	return s.Group
}

func (s *KafkaConfig) ReportsTopic() string {
	if s.Topic == "" {
		return defaultRequestsTopic
	}
	return s.Topic
}
