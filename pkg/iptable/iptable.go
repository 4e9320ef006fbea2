package iptable

import (
	"fmt"
	"math"
	"math/big"
	"net/netip"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/henderiw/intervalmap/pkg/intervalmap"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	ClaimRange(rng string, d table.Route) error
	ClaimPrefix(prefix string, d table.Route) error
	Release(addr string) error
	ReleaseRange(rng string) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	FreeRanges() []netipx.IPRange

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

func compareAddr(a, b netip.Addr) int { return a.Compare(b) }

// New returns a table of the addresses from..to, both included.
func New(from, to netip.Addr, opts ...Option) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from, to)
	}
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &ipTable{
		m:       new(sync.RWMutex),
		claims:  intervalmap.New[netip.Addr, table.Route](compareAddr),
		ipRange: ipRange,
		log:     o.log.WithName("iptable"),
	}, nil
}

type Option func(*options)

type options struct {
	log logr.Logger
}

func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

type ipTable struct {
	m       *sync.RWMutex
	claims  *intervalmap.Map[netip.Addr, table.Route]
	ipRange netipx.IPRange
	log     logr.Logger
}

func toInterval(r netipx.IPRange) interval.Interval[netip.Addr] {
	return interval.Closed(r.From(), r.To())
}

// toIPRange returns the addresses of iv, which must be bounded.
func toIPRange(iv interval.Interval[netip.Addr]) (netipx.IPRange, bool) {
	from, to := iv.Start.Value, iv.End.Value
	if iv.Start.Kind == interval.Excluded {
		from = from.Next()
	}
	if iv.End.Kind == interval.Excluded {
		to = to.Prev()
	}
	r := netipx.IPRangeFrom(from, to)
	return r, r.IsValid()
}

func (r *ipTable) Get(addr string) (table.Route, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return table.Route{}, err
	}
	d, ok := r.claims.Get(claimIP)
	if !ok {
		return table.Route{}, fmt.Errorf("no match found for: %s", addr)
	}
	return d, nil
}

func (r *ipTable) Claim(addr string, d table.Route) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.claim(netipx.IPRangeFrom(claimIP, claimIP), d)
}

// ClaimRange claims a range in the "from-to" form, e.g. "10.0.0.1-10.0.0.9".
func (r *ipTable) ClaimRange(rng string, d table.Route) error {
	ipRange, err := r.validateRange(rng)
	if err != nil {
		return err
	}
	return r.claim(ipRange, d)
}

func (r *ipTable) ClaimPrefix(prefix string, d table.Route) error {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return fmt.Errorf("prefix %s is invalid", prefix)
	}
	ipRange := netipx.RangeOfPrefix(p)
	if !r.fits(ipRange) {
		return fmt.Errorf("prefix %s, does not fit in the range from %s to %s", prefix, r.ipRange.From(), r.ipRange.To())
	}
	return r.claim(ipRange, d)
}

func (r *ipTable) claim(ipRange netipx.IPRange, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	iv := toInterval(ipRange)
	if used := r.claims.RangeEntries(iv); len(used) > 0 {
		return fmt.Errorf("claim failed %s overlaps claimed range %s", ipRange, used[0].Interval)
	}
	r.claims.Insert(iv, d)
	r.log.V(1).Info("claimed", "range", ipRange.String())
	return nil
}

func (r *ipTable) Release(addr string) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.release(netipx.IPRangeFrom(claimIP, claimIP))
}

func (r *ipTable) ReleaseRange(rng string) error {
	ipRange, err := r.validateRange(rng)
	if err != nil {
		return err
	}
	return r.release(ipRange)
}

func (r *ipTable) release(ipRange netipx.IPRange) error {
	r.m.Lock()
	defer r.m.Unlock()

	r.claims.Remove(toInterval(ipRange))
	r.log.V(1).Info("released", "range", ipRange.String())
	return nil
}

func (r *ipTable) Update(addr string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	if !r.claims.Contains(claimIP) {
		return fmt.Errorf("update failed ip %s not claimed", addr)
	}
	r.claims.Overwrite(interval.Point(claimIP), d)
	return nil
}

// Count returns the number of claimed addresses, capped at math.MaxInt.
func (r *ipTable) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	total := new(big.Int)
	for iv := range r.claims.Keys() {
		// fragments left by a release or an update may have excluded bounds
		if ipRange, ok := toIPRange(iv); ok {
			total.Add(total, numIPs(ipRange.From(), ipRange.To()))
		}
	}
	if !total.IsInt64() || total.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(total.Int64())
}

func (r *ipTable) Has(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.claims.Contains(claimIP)
}

func (r *ipTable) IsFree(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return !r.claims.Contains(claimIP)
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	free := r.FreeRanges()
	if len(free) == 0 {
		return netip.Addr{}, fmt.Errorf("no free entry found")
	}
	return free[0].From(), nil
}

// FreeRanges returns the unclaimed parts of the table.
func (r *ipTable) FreeRanges() []netipx.IPRange {
	r.m.RLock()
	defer r.m.RUnlock()

	free := r.claims.Clone()
	free.Invert(table.Route{})
	free.Remove(interval.LessThan(r.ipRange.From()))
	free.Remove(interval.GreaterThan(r.ipRange.To()))

	var ranges []netipx.IPRange
	for iv := range free.Keys() {
		if ipRange, ok := toIPRange(iv); ok {
			ranges = append(ranges, ipRange)
		}
	}
	return ranges
}

func (r *ipTable) GetAll() table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for route := range r.claims.Values() {
		routes = append(routes, route)
	}
	return routes
}

func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for route := range r.claims.Values() {
		if selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}
	return routes
}

func (r *ipTable) fits(ipRange netipx.IPRange) bool {
	return r.ipRange.Contains(ipRange.From()) && r.ipRange.Contains(ipRange.To())
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	// Parse IP address
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

func (r *ipTable) validateRange(rng string) (netipx.IPRange, error) {
	ipRange, err := netipx.ParseIPRange(rng)
	if err != nil {
		return ipRange, fmt.Errorf("ip range %s is invalid: %w", rng, err)
	}
	if !r.fits(ipRange) {
		return ipRange, fmt.Errorf("ip range %s, does not fit in the range from %s to %s", rng, r.ipRange.From(), r.ipRange.To())
	}
	return ipRange, nil
}

func numIPs(startIP, endIP netip.Addr) *big.Int {
	diff := new(big.Int).Sub(ipToInt(endIP), ipToInt(startIP))
	return diff.Add(diff, big.NewInt(1)) // Add 1 to include the start IP
}

func ipToInt(ip netip.Addr) *big.Int {
	// Convert IP address to big integer
	bytes := ip.As16()
	return new(big.Int).SetBytes(bytes[:])
}
