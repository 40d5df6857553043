// Package config loads certificate job settings.
//
// Settings come from, in increasing priority: built-in defaults, a YAML job
// file, a .env file and CERTGEN_* environment variables. The command line
// applies its flags last.
//
// A job file looks like:
//
//	roster: people.csv
//	template: award.png
//	font: fonts/Vazirmatn.ttf
//	output: out
//	font_size: 56
//	color: "#1a237e"
//	y: 420
//	format: pdf
//	overwrite: skip
//	qr:
//	  content: "https://example.org/verify?email={email}"
//	  size: 140
package config
