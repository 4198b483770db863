package cli

import "context"

type handler struct {
	minArgs    int
	maxArgs    int // -1 for no limit
	needsDoc   bool
	needsStore bool
	run        func(c *CLI, ctx context.Context, cmd Command) error
}

// handlers maps "scope operation" to its implementation. Help texts live in
// commandHelps under the same keys.
var handlers = map[string]handler{
	"map new":       {0, 1, false, false, (*CLI).mapNew},
	"map open":      {1, 1, false, false, (*CLI).mapOpen},
	"map save":      {0, 1, true, false, (*CLI).mapSave},
	"map store":     {0, 1, true, true, (*CLI).mapStore},
	"map load":      {1, 1, false, true, (*CLI).mapLoad},
	"map list":      {0, 0, false, true, (*CLI).mapList},
	"map delete":    {1, 1, false, true, (*CLI).mapDelete},
	"map revisions": {0, 1, false, true, (*CLI).mapRevisions},
	"map revert":    {1, 1, false, true, (*CLI).mapRevert},
	"map show":      {0, 1, true, false, (*CLI).mapShow},
	"map attr":      {0, 2, true, false, (*CLI).mapAttr},
	"map text":      {0, 0, true, false, (*CLI).mapText},

	"topic add":      {2, 2, true, false, (*CLI).topicAdd},
	"topic insert":   {2, 2, true, false, (*CLI).topicInsert},
	"topic del":      {1, 1, true, false, (*CLI).topicDelete},
	"topic mod":      {2, 2, true, false, (*CLI).topicModify},
	"topic move":     {2, 3, true, false, (*CLI).topicMove},
	"topic clone":    {1, 1, true, false, (*CLI).topicClone},
	"topic info":     {0, 1, true, false, (*CLI).topicInfo},
	"topic select":   {1, 1, true, false, (*CLI).topicSelect},
	"topic attr":     {1, 3, true, false, (*CLI).topicAttr},
	"topic collapse": {1, 1, true, false, (*CLI).topicCollapse},

	"extra link":   {2, 2, true, false, (*CLI).extraLink},
	"extra file":   {2, 3, true, false, (*CLI).extraFile},
	"extra note":   {2, 3, true, false, (*CLI).extraNote},
	"extra reveal": {1, 1, true, false, (*CLI).extraReveal},
	"extra jump":   {2, 2, true, false, (*CLI).extraJump},
	"extra follow": {1, 1, true, false, (*CLI).extraFollow},
	"extra del":    {2, 2, true, false, (*CLI).extraDelete},

	"find all":  {1, 1, true, false, (*CLI).findAll},
	"find next": {0, 1, true, false, (*CLI).findNext},
	"find prev": {0, 1, true, false, (*CLI).findPrev},

	"file check":  {1, 1, true, false, (*CLI).fileCheck},
	"file rename": {2, 2, true, false, (*CLI).fileRename},
	"file forget": {1, 1, true, false, (*CLI).fileForget},
}
