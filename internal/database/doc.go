// Package database stores mirror job history in SQLite. Persistence is
// optional; the crawler itself never depends on it.
package database
