// Package main provides the entry point of authdesk.
// It runs a JSON API built on Fiber that manages authority profiles together
// with their user accounts, and authorizes realtime chat channel subscriptions
// through Pusher. Data is kept with gorm in MySQL, PostgreSQL or SQLite.
package main
