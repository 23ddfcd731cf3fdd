package app

import (
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
	"github.com/Nihilentropy-117/Web-Controller/modules/commands"
	"github.com/Nihilentropy-117/Web-Controller/modules/services"
	"github.com/Nihilentropy-117/Web-Controller/modules/sysinfo"
)

// coreBuiltins is the definitive list of runner packages compiled into the
// webcontroller binary. Manifests in the modules directory instantiate
// these by kind.
var coreBuiltins = []registry.Builtin{
	&sysinfo.Builtin{},
	&services.Builtin{},
	&commands.Builtin{},
}
