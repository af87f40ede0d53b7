// Package archive packages a mirrored output tree into a zip file and
// removes the tree afterwards.
package archive
