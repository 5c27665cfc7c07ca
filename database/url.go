package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a base URL with a database name and makes
// sure sslmode and application_name are set. An unparsable base URL is
// returned unchanged so the driver reports the error.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return baseURL
	}
	u.Path = "/" + databaseName

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	if query.Get("application_name") == "" {
		query.Set("application_name", "wager-engine")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
