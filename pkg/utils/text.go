package utils

// Truncate corta s em no máximo limit caracteres (runas) e sempre acrescenta reticências
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit >= 0 && len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
