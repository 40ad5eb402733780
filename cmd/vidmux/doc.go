// Command vidmux is the CLI for the media conversion service: one-shot
// downloads from the terminal, a foreground server mode, and inspection of
// dependencies, configuration, and conversion history.
package main
