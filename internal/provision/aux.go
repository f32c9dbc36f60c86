package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// licenseText is written verbatim into every generated repository.
const licenseText = "MIT License\n\nCopyright (c) 2025\n\nPermission is hereby granted, free of charge, " +
	"to any person obtaining a copy of this software and associated documentation files " +
	"(the 'Software'), to deal in the Software without restriction, including without " +
	"limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, " +
	"and/or sell copies of the Software.\n"

var titleCaser = cases.Title(language.English)

// RepoTitle turns a repository name into a human readable title for the
// README heading.
func RepoTitle(repoName string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(repoName)
	return titleCaser.String(spaced)
}

// BuildSummary composes the README body for a build round.
func BuildSummary(brief, taskName string, round int) string {
	return fmt.Sprintf("%s\n\nThis app was generated automatically for task '%s' (round %d).", brief, taskName, round)
}

// WriteAuxiliaryFiles writes the LICENSE and README into the repository
// tree, overwriting whatever the generator may have proposed for them.
func WriteAuxiliaryFiles(dir, title, summary string) error {
	if err := os.WriteFile(filepath.Join(dir, "LICENSE"), []byte(licenseText), 0o644); err != nil {
		return fmt.Errorf("write LICENSE: %w", err)
	}
	readme := fmt.Sprintf("# %s\n\n%s\n\n## License\nMIT\n", title, summary)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644); err != nil {
		return fmt.Errorf("write README.md: %w", err)
	}
	return nil
}
