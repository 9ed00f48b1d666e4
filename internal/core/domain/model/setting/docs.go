// Package setting implements operational settings such as the default preparation time.
package setting
