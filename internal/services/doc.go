// Package services holds cross-cutting helpers shared by pipeline stages:
// the error classification taxonomy and context annotation utilities.
package services
