package utils

import (
	"path/filepath"
	"strings"
)

// IsCSV indica se o arquivo tem extensão .csv, sem diferenciar maiúsculas
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
