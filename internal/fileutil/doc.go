// Package fileutil writes export files in place atomically.
package fileutil
