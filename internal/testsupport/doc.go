// Package testsupport provides shared fixtures for package tests: isolated
// configurations, opened stores and songs carrying random binary payloads.
package testsupport
