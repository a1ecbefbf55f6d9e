// Package regiotesting provides test scaffolding shared by the regio packages.
package regiotesting
