package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/manifest_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/registry_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/resolver_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/transfer_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/configuration"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
	"github.com/Brownster/agent-desktop-module-registry/pkg/service"
	sb_config_hdl "github.com/SENERGY-Platform/go-service-base/config-hdl"
	"github.com/SENERGY-Platform/go-service-base/srv-info-hdl"
	struct_logger "github.com/SENERGY-Platform/go-service-base/struct-logger"
)

var version string

const usage = `usage: module-registry [-config path] <command> [args]

commands:
  publish <dir>                   publish a module from a local directory
  publish-remote <id> [version]   fetch a module from its repository and publish it
  list                            list the newest published record per module
  remove <id> <version>           remove a published version
  resolve <id> [range]            resolve the dependency closure of a module
  check <id> [range]              check whether activation would be blocked
  versions <id>                   list versions available at the module source
`

func main() {
	ec := 0
	defer func() {
		os.Exit(ec)
	}()

	srvInfoHdl := srv_info_hdl.New(models.ServiceName, version)

	args := configuration.ParseFlags()
	if len(args) == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		ec = 1
		return
	}

	config, err := configuration.New(configuration.ConfPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		ec = 1
		return
	}

	logger := struct_logger.New(config.Logger, os.Stderr, "", srvInfoHdl.Name())

	logger.Debug("starting", slog_attr.VersionKey, srvInfoHdl.Version(), slog_attr.ConfigValuesKey, sb_config_hdl.StructToMap(config, true))

	manifestHdl := manifest_hdl.New()

	registry_hdl.InitLogger(logger)
	registryHdl, err := registry_hdl.New(manifestHdl, config.Registry.IndexPath, config.Registry.ModulesRootPath, config.Registry.Delimiter, config.Registry.FilePerm)
	if err != nil {
		logger.Error("creating registry handler failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}
	if err = registryHdl.Init(); err != nil {
		logger.Error("initializing registry failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	transfer_hdl.InitLogger(logger)
	transferHdl, err := transfer_hdl.New(config.Transfer.WorkDirPath, config.Registry.FilePerm, config.Transfer.Timeout)
	if err != nil {
		logger.Error("creating transfer handler failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}
	if err = transferHdl.InitWorkspace(); err != nil {
		logger.Error("initializing transfer workspace failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	resolver_hdl.InitLogger(logger)
	resolverHdl := resolver_hdl.New(registryHdl)

	service.InitLogger(logger)
	srv := service.New(registryHdl, transferHdl, resolverHdl)

	if err = run(context.Background(), srv, args); err != nil {
		logger.Error("command failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}
}

func run(ctx context.Context, srv *service.Service, args []string) error {
	switch cmd := args[0]; cmd {
	case "publish":
		if len(args) != 2 {
			return fmt.Errorf("usage: publish <dir>")
		}
		rec, err := srv.PublishModule(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(rec)
	case "publish-remote":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: publish-remote <id> [version]")
		}
		var ver string
		if len(args) == 3 {
			ver = args[2]
		}
		rec, err := srv.PublishModuleFromRemote(ctx, args[1], ver)
		if err != nil {
			return err
		}
		return printJSON(rec)
	case "list":
		recs, err := srv.Modules(ctx, models.ModuleFilter{})
		if err != nil {
			return err
		}
		return printJSON(recs)
	case "remove":
		if len(args) != 3 {
			return fmt.Errorf("usage: remove <id> <version>")
		}
		return srv.RemoveModule(ctx, args[1], args[2])
	case "resolve":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: resolve <id> [range]")
		}
		var verRng string
		if len(args) == 3 {
			verRng = args[2]
		}
		resolutions, err := srv.ResolveDependencies(ctx, args[1], verRng)
		if err != nil {
			return err
		}
		return printJSON(resolutions)
	case "check":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: check <id> [range]")
		}
		var verRng string
		if len(args) == 3 {
			verRng = args[2]
		}
		blocked, resolutions, err := srv.CheckActivation(ctx, args[1], verRng)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"blocked": blocked, "dependencies": resolutions})
	case "versions":
		if len(args) != 2 {
			return fmt.Errorf("usage: versions <id>")
		}
		versions, err := srv.ListRemoteVersions(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(versions)
	default:
		return fmt.Errorf("unknown command '%s'", cmd)
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
