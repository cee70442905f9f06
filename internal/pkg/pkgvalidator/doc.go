// Package pkgvalidator runs ozzo-validation rules and converts failures into
// pkgerror values so handlers can return them unchanged.
package pkgvalidator
