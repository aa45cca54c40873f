package textutil

import "strings"

// unsafeNameReplacer drops characters that are invalid in file or directory
// names on at least one common filesystem.
var unsafeNameReplacer = strings.NewReplacer(
	"<", "",
	">", "",
	":", "",
	"\"", "",
	"/", "",
	"\\", "",
	"|", "",
	"?", "",
	"*", "",
)

// RemoveUnsafe removes the characters < > : " / \ | ? * and leaves every
// other byte, whitespace included, untouched.
func RemoveUnsafe(name string) string {
	return unsafeNameReplacer.Replace(name)
}

// StripUnsafe removes the characters < > : " / \ | ? * from a single path
// component and trims surrounding whitespace. Inner whitespace left behind by
// a removed character is collapsed to one space.
func StripUnsafe(name string) string {
	return strings.Join(strings.Fields(RemoveUnsafe(name)), " ")
}
