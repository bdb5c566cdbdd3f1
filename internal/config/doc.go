// Package config loads fic configuration from an explicit file, a local
// file in the working directory, and a global file under the XDG config
// directory. It is internal; CLI code maps flags and files into scanner and
// store configuration.
package config
