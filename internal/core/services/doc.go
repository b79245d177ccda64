// Package services implements the driving port interfaces.
// Services contain the application logic of the bfs tool and reach store
// files only through driven.StoreFactory, so they run unchanged against the
// SQLite adapter and the in-memory one used in tests.
package services
