package config

type StorageConfig struct {
	DriverName string `yaml:"driver"`
	SQLiteFile string `yaml:"sqlite-path"`
}

func (s *StorageConfig) Driver() string {
	return s.DriverName
}

func (s *StorageConfig) SQLitePath() string {
	return s.SQLiteFile
}
