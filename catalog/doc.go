// Package catalog builds the resources declared in the configuration file.
//
// Each entry is a resource.Base whose capabilities are overridden by the
// configured values, with request validation, authentication and
// authorization hooks assembled from the auth package.
package catalog
