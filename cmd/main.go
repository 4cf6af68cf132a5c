package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/flavio/dynwatch/cmd/server"
	"github.com/flavio/dynwatch/internal/backoff"
	"github.com/flavio/dynwatch/internal/kube"
	"github.com/flavio/dynwatch/internal/pipeline"
	"github.com/flavio/dynwatch/internal/state"
	"github.com/flavio/dynwatch/internal/watch"
)

var opts struct {
	apiVersion string
	kind       string
	namespace  string
	global     bool
	kubeconfig string
	listen     string
	output     string
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynwatch",
		Short: "Watch one cluster resource type and mirror it locally",
		Long: `dynwatch resolves an arbitrary resource type at runtime, opens a
self-healing watch against the cluster and folds the event stream into a
consistent in-memory mirror. It is a read-only observer: it never writes
back to the cluster and keeps no state across restarts.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.apiVersion, "apiversion", "", `api group and version of the resource (e.g. "networking.k8s.io/v1", or "v1" for the core group)`)
	cmd.Flags().StringVar(&opts.kind, "kind", "", `kind of the resource (e.g. "Ingress")`)
	cmd.Flags().StringVar(&opts.namespace, "namespace", "", "namespace to watch")
	cmd.Flags().BoolVar(&opts.global, "global", false, "watch the resource across all namespaces")
	cmd.Flags().StringVar(&opts.kubeconfig, "kubeconfig", "", "path to the kubeconfig file (defaults to $KUBECONFIG, then ~/.kube/config, then in-cluster)")
	cmd.Flags().StringVar(&opts.listen, "listen", "", `address of the read-only inspection API (e.g. ":8080"; empty disables it)`)
	cmd.Flags().StringVar(&opts.output, "output", "log", `per-event output format: "log" or "yaml"`)
	_ = cmd.MarkFlagRequired("apiversion")
	_ = cmd.MarkFlagRequired("kind")

	klog.InitFlags(flag.CommandLine)
	cmd.Flags().AddGoFlagSet(flag.CommandLine)

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	// everything checkable without the cluster is checked first
	if opts.namespace != "" && opts.global {
		return kube.ErrConflictingScope
	}

	var sink pipeline.Sink
	switch opts.output {
	case "log":
		sink = pipeline.LogSink{}
	case "yaml":
		sink = pipeline.YAMLSink{Out: os.Stdout}
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	clients, err := kube.NewClients(opts.kubeconfig)
	if err != nil {
		return err
	}

	desc, err := kube.ResolveDescriptor(clients.Discovery, opts.apiVersion, opts.kind)
	if err != nil {
		return err
	}
	target, err := kube.ResolveTarget(desc, opts.namespace, opts.global)
	if err != nil {
		return err
	}

	klog.InfoS("resolved resource",
		"apiVersion", desc.APIVersion(), "kind", desc.Kind,
		"plural", desc.Plural, "namespaced", desc.Namespaced, "scope", target.Scope)

	store := state.NewStore()
	pipe := pipeline.New(store, sink)

	if opts.listen != "" {
		api := server.NewAPIServer(store, pipe)
		go func() {
			if err := api.Start(opts.listen); err != nil {
				klog.ErrorS(err, "inspection API failed")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := watch.NewSession(target.ResourceInterface(clients.Dynamic), desc.Kind)
	resilient := watch.NewResilient(session.Run, backoff.New(backoff.DefaultConfig()))

	// runs until the process is stopped; stream errors are retried inside
	err = resilient.Run(ctx, pipe.Handle)
	if errors.Is(err, context.Canceled) {
		klog.InfoS("shutting down")
		return nil
	}
	return err
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
