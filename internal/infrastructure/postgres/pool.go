package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bodega-api/pkg/config"
)

const (
	applicationName = "bodega-api"
	// El listener de snapshots retiene una conexión de forma permanente.
	minPoolConns = 2
)

// NewPool crea el pool y verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// PoolConfig arma la configuración del pool sin conectar: tamaño, application_name,
// codec NUMERIC -> decimal y marcado preferente por IPv4.
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	pc.MaxConns = int32(max(cfg.MaxConns, minPoolConns))
	pc.MinConns = 1
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	if pc.ConnConfig.RuntimeParams["application_name"] == "" {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	// Docker suele no tener IPv6 y algunos proveedores publican AAAA primero.
	pc.ConnConfig.DialFunc = ipv4Dialer{lookups: defaultLookups()}.DialContext
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

type lookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// defaultLookups resolver del sistema y, si no devuelve IPv4, un DNS público.
func defaultLookups() []lookupFunc {
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return []lookupFunc{
		func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip4", host)
		},
		func(ctx context.Context, host string) ([]net.IP, error) {
			return public.LookupIP(ctx, "ip4", host)
		},
	}
}

// ipv4Dialer marca contra la primera IPv4 del host; si no hay ninguna, marca normal.
type ipv4Dialer struct {
	lookups []lookupFunc
	dialer  net.Dialer
}

func (d ipv4Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := d.resolve(ctx, host)
	if err != nil {
		return d.dialer.DialContext(ctx, network, addr)
	}
	return d.dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

var errNoIPv4 = errors.New("sin dirección IPv4")

func (d ipv4Dialer) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", errNoIPv4
	}
	for _, lookup := range d.lookups {
		ips, err := lookup(ctx, host)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			if ip.To4() != nil {
				return ip.String(), nil
			}
		}
	}
	return "", errNoIPv4
}
