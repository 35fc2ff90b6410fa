package instance

import "os"

// ID names the running process in logs. BOUQUET_INSTANCE_ID wins, then the
// Cloud Run revision, then the hostname, then "<kind>-local".
func ID(kind string) string {
	for _, key := range []string{"BOUQUET_INSTANCE_ID", "K_REVISION"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return kind + "-local"
}
