// Package all imports every built-in source for side-effect registration.
//
//	import _ "github.com/Vodeneev/matchsync/internal/parser/sources/all"
package all

import (
	_ "github.com/Vodeneev/matchsync/internal/parser/sources/betman"
	_ "github.com/Vodeneev/matchsync/internal/parser/sources/livescore"
)
