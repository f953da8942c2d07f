// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dnslink resolves the currently published checkpoints cid
// from a DNSLink TXT record. The record lives at _dnslink.<domain>
// and carries a path such as dnslink=/ipfs/<cid>; only the trailing
// path segment is significant to the helper.
package dnslink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

var (
	// ErrNoRecord is returned when the query yields no TXT answers.
	ErrNoRecord = errors.New("no dnslink record")
	// ErrEmptyRecord is returned when the first TXT answer holds no
	// path segment.
	ErrEmptyRecord = errors.New("empty dnslink record")
)

// Interface resolves a domain into the cid it currently publishes.
type Interface interface {
	Resolve(ctx context.Context, domain string) (string, error)
}

// Options are the resolver construction options.
type Options struct {
	// ServerAddr overrides the DNS server, as host:port. When
	// empty the first nameserver from the system resolver
	// configuration is used.
	ServerAddr string
	// ResolvConf is the resolver configuration file consulted when
	// ServerAddr is not set. Defaults to /etc/resolv.conf.
	ResolvConf string
}

type Resolver struct {
	client *dns.Client
	server string
}

// New creates a new Resolver.
func New(o Options) (*Resolver, error) {
	server := o.ServerAddr
	if server == "" {
		conf := o.ResolvConf
		if conf == "" {
			conf = "/etc/resolv.conf"
		}
		cc, err := dns.ClientConfigFromFile(conf)
		if err != nil {
			return nil, fmt.Errorf("read resolver configuration: %w", err)
		}
		if len(cc.Servers) == 0 {
			return nil, errors.New("no nameservers configured")
		}
		server = cc.Servers[0] + ":" + cc.Port
	}
	return &Resolver{
		client: new(dns.Client),
		server: server,
	}, nil
}

// Resolve implements the Interface. It issues a single TXT query for
// _dnslink.<domain> and extracts the trailing path segment of the
// first answer. There is no caching and no retrying here; the caller
// owns the retry cadence.
func (r *Resolver) Resolve(ctx context.Context, domain string) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn("_dnslink."+domain), dns.TypeTXT)

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return "", fmt.Errorf("txt query for %q: %w", domain, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("txt query for %q: %s", domain, dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		record := strings.Join(txt.Txt, "")
		cid := lastSegment(record)
		if cid == "" {
			return "", fmt.Errorf("record %q for %q: %w", record, domain, ErrEmptyRecord)
		}
		return cid, nil
	}
	return "", fmt.Errorf("domain %q: %w", domain, ErrNoRecord)
}

func lastSegment(record string) string {
	parts := strings.Split(record, "/")
	return parts[len(parts)-1]
}
