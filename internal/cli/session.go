package cli

import (
	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/internal/profile"
	"github.com/thoreinstein/mcptoggle/internal/scope"
)

// Session bundles what one command invocation works with.
type Session struct {
	Options

	Registry *platform.Registry
	Backups  *backup.Manager
	Profiles *profile.Store

	resolver *scope.Resolver
}

// NewSession builds the registry and stores for opts.
func NewSession(opts Options, resolverOpts ...scope.Option) (*Session, error) {
	reg, err := NewRegistry(opts)
	if err != nil {
		return nil, err
	}
	return &Session{
		Options:  opts,
		Registry: reg,
		Backups:  NewBackupManager(opts),
		Profiles: NewProfileStore(opts),
		resolver: scope.NewResolver(append([]scope.Option{scope.WithLogger(opts.logger())}, resolverOpts...)...),
	}, nil
}

// Adapter selects the adapter for tool, falling back to default_tool and
// then to the first detected tool.
func (s *Session) Adapter(tool string) (platform.Adapter, error) {
	return SelectAdapter(s.Registry, tool, s.config().DefaultTool)
}

// ScopeMode parses flag, falling back to default_scope.
func (s *Session) ScopeMode(flag string) (scope.Mode, error) {
	if flag == "" {
		flag = s.config().DefaultScope
	}
	return scope.ParseMode(flag)
}

// Open selects the adapter, resolves the scope and loads the view in one
// step.
func (s *Session) Open(tool, scopeFlag, project string) (*View, error) {
	a, err := s.Adapter(tool)
	if err != nil {
		return nil, err
	}
	mode, err := s.ScopeMode(scopeFlag)
	if err != nil {
		return nil, err
	}
	res, err := s.resolver.Resolve(a, mode, project)
	if err != nil {
		return nil, err
	}
	return LoadView(a, res)
}
