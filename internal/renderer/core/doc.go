// Package core provides the style types shared by the view painter and the
// configuration layer.
package core
