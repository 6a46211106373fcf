package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/client"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/metrics"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/token"
)

const tokenEnv = "FLUENTREST_TOKEN"

type globalFlags struct {
	profile   string
	host      string
	path      string
	method    string
	body      string
	query     []string
	headers   []string
	token     string
	tokenFile string
	caCert    string
	timeout   time.Duration
	metrics   bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "fluentrest",
	Short: "Fetch JSON objects and streams from REST endpoints",
	Long: `fluentrest sends requests to a REST endpoint and prints every result
envelope as a line of JSON.

A request can be described in a HuJSON profile (JSON with comments and
trailing commas) and refined with flags:

  fluentrest get --host https://localhost:5000 --path Test/FinaUrlToDto 100
  fluentrest stream --profile numbers.hujson -q delay=100 10`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.profile, "profile", "p", "", "HuJSON file describing the request")
	pf.StringVar(&flags.host, "host", "", "host, e.g. https://localhost:5000")
	pf.StringVar(&flags.path, "path", "", "endpoint path following the host")
	pf.StringVarP(&flags.method, "method", "X", "", "HTTP method (default GET)")
	pf.StringVarP(&flags.body, "body", "d", "", "request body")
	pf.StringArrayVarP(&flags.query, "query", "q", nil, "query parameter as name=value, may be repeated")
	pf.StringArrayVarP(&flags.headers, "header", "H", nil, "header as 'Name: value', may be repeated")
	pf.StringVar(&flags.token, "token", "", "bearer token (default $"+tokenEnv+")")
	pf.StringVar(&flags.tokenFile, "token-file", "", "file holding the bearer token, re-read when it changes")
	pf.StringVar(&flags.caCert, "ca-cert", "", "PEM file of the certificate authorities to trust")
	pf.DurationVar(&flags.timeout, "timeout", 0, "overall timeout of each exchange, 0 for none")
	pf.BoolVar(&flags.metrics, "metrics", false, "print Prometheus metrics to stderr when done")

	gofs := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(gofs)
	pf.AddGoFlagSet(gofs)

	rootCmd.AddCommand(getCmd, streamCmd, serveTestCmd)
}

// session is everything a command needs to issue requests.
type session struct {
	log      logr.Logger
	rc       *rest.Client
	req      *rest.Request
	registry *prometheus.Registry
	closers  []func() error
}

func newSession(ctx context.Context) (*session, error) {
	s := &session{log: klog.FromContext(ctx)}

	p := &Profile{}
	if flags.profile != "" {
		var err error
		if p, err = LoadProfile(flags.profile); err != nil {
			return nil, err
		}
	}
	if err := p.apply(&flags); err != nil {
		return nil, err
	}
	if p.Host == "" {
		s.Close()
		return nil, fmt.Errorf("no host given, use --host or a profile")
	}

	kopts, err := s.clientOptions(p)
	if err != nil {
		s.Close()
		return nil, err
	}

	ropts := []rest.Option{rest.WithLogger(s.log), rest.WithStreamRequestHeaders()}
	if flags.metrics {
		s.registry = prometheus.NewRegistry()
		ropts = append(ropts, rest.WithObserver(metrics.NewCollector(s.registry)))
	}

	s.rc = rest.NewClient(client.NewClient(kopts...), ropts...)
	s.req = p.Request(s.rc)

	return s, nil
}

func (s *session) clientOptions(p *Profile) ([]client.Option, error) {
	var opts []client.Option

	switch {
	case flags.tokenFile != "" || p.TokenFile != "":
		name := flags.tokenFile
		if name == "" {
			name = p.TokenFile
		}
		ft, err := token.NewFileToken(name)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, ft.Close)
		opts = append(opts, client.WithTokenProvider(ft))
	case flags.token != "":
		opts = append(opts, client.WithTokenProvider(token.NewStaticToken(flags.token)))
	case os.Getenv(tokenEnv) != "":
		opts = append(opts, client.WithTokenProvider(token.NewStaticToken(os.Getenv(tokenEnv))))
	}

	if flags.caCert != "" {
		ca, err := os.ReadFile(flags.caCert)
		if err != nil {
			return nil, fmt.Errorf("reading CA certificates: %w", err)
		}
		opts = append(opts, client.WithCACert(ca))
	}
	if flags.timeout > 0 {
		opts = append(opts, client.WithTimeout(flags.timeout))
	}

	return opts, nil
}

// Close prints the metrics, if enabled, and releases the token watcher.
func (s *session) Close() {
	if s.registry != nil {
		if err := dumpMetrics(s.registry); err != nil {
			s.log.Error(err, "unable to print metrics")
		}
	}
	for _, c := range s.closers {
		c()
	}
}

func dumpMetrics(g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			return err
		}
	}
	return nil
}

func splitPair(s, sep string) (string, string, error) {
	name, value, ok := strings.Cut(s, sep)
	if !ok {
		return "", "", fmt.Errorf("%q: missing %q", s, sep)
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), nil
}
