/*

Gomcmc samples the posterior distribution of the mean and the
standard deviation of normally distributed data, using either a
single-chain Metropolis-Hastings sampler or the affine-invariant
ensemble sampler.

The basic usage looks like this:

	gomcmc

, this will generate a dataset and run the single-chain sampler with
default settings.

You can change the sampler and the number of iterations:

	gomcmc -method ensemble -iter 2000

To see all the options run:

	gomcmc -h

*/
package main

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/gomcmc/checkpoint"
	"bitbucket.org/Davydov/gomcmc/mcmc"
	"bitbucket.org/Davydov/gomcmc/stats"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("gomcmc")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("gomcmc", "generic MCMC sampling engine").Version(version)

	// sampler parameters
	method = app.Flag("method", "sampling method to use "+
		"(mh: single-chain Metropolis-Hastings, "+
		"ensemble: affine-invariant ensemble sampler)").Default("mh").Enum("mh", "ensemble")
	iterations = app.Flag("iter", "number of iterations").Default("10000").Int()
	burn       = app.Flag("burn", "number of burn-in iterations to discard").Default("1000").Int()
	report     = app.Flag("report", "report every N iterations").Default("1000").Int()
	accept     = app.Flag("accept", "report acceptance rate every N iterations").Default("200").Int()
	walkers    = app.Flag("walkers", "ensemble size for the ensemble sampler").Default("50").Int()

	// data parameters
	nData    = app.Flag("n", "number of data points to generate").Default("100").Int()
	trueMean = app.Flag("mean", "true mean of the generated data").Default("3.5").Float64()
	trueSD   = app.Flag("sd", "true standard deviation of the generated data").Default("1").Float64()

	// technical
	seed = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write sampling trajectory to a file").String()
	cpkF     = app.Flag("checkpoint", "checkpoint database file (single chain only)").String()
	cpkSec   = app.Flag("cpkinterval", "checkpoint save interval in seconds").Default("30").Float64()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"(CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG)").Default("NOTICE").String()
)

// normModel is the posterior of the mean and the standard deviation
// of normally distributed observations, with uniform priors. The
// state vector is {mean, sd}.
type normModel struct {
	data []float64
}

// genData generates normally distributed observations.
func genData(mean, sd float64, n int, rng *rand.Rand) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.NormFloat64()*sd + mean
	}
	return data
}

func (m *normModel) logL(st []float64) (res float64) {
	mean, sd := st[0], st[1]
	if sd <= 0 {
		return math.Inf(-1)
	}
	for _, x := range m.data {
		d := (x - mean) / sd
		res += -math.Log(sd*math.Sqrt(2*math.Pi)) - d*d/2
	}
	return
}

func (m *normModel) logPrior(st []float64) float64 {
	meanPrior := mcmc.UniformPrior(-100, 100, false, false)
	sdPrior := mcmc.UniformPrior(0, 100, false, false)
	return meanPrior(st[0]) + sdPrior(st[1])
}

// watchSignals returns a channel which receives interrupt and
// termination signals.
func watchSignals() chan os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return sig
}

// newTrajectoryWriter creates a buffered writer for the trajectory
// file, nil if no file was requested.
func newTrajectoryWriter() (*bufio.Writer, *os.File) {
	if *outF == "" {
		return nil, nil
	}
	f, err := os.Create(*outF)
	if err != nil {
		log.Fatal("Error creating trajectory file:", err)
	}
	return bufio.NewWriter(f), f
}

// writeTrajectory writes a single trajectory line.
func writeTrajectory(w *bufio.Writer, i int, st []float64) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%d", i)
	for _, x := range st {
		fmt.Fprintf(w, "\t%f", x)
	}
	fmt.Fprintln(w)
}

// runChain runs the single-chain sampler and returns the post
// burn-in samples for every parameter.
func runChain(m *normModel, rng *rand.Rand) [][]float64 {
	kernels := []mcmc.Proposal[[]float64]{
		mcmc.NormalVectorProposal(0.05, rng),
		mcmc.NormalVectorProposal(0.5, rng),
	}
	densities := []mcmc.ProposalDensity[[]float64]{
		mcmc.SymmetricDensity[[]float64](),
		mcmc.SymmetricDensity[[]float64](),
	}

	initial := []float64{0, 1}
	start := 0

	var cpk *checkpoint.CheckpointIO
	if *cpkF != "" {
		db, err := bolt.Open(*cpkF, 0666, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()
		cpk = checkpoint.NewCheckpointIO(db, []byte("chain"), *cpkSec)
		data, err := cpk.Load()
		if err != nil {
			log.Fatal("Error loading checkpoint:", err)
		}
		if data != nil && !data.Final {
			initial = data.State
			start = data.Iter
			// continue the kernel rotation where it
			// stopped
			off := data.Kernel % len(kernels)
			kernels = append(kernels[off:], kernels[:off]...)
			densities = append(densities[off:], densities[:off]...)
			log.Noticef("Resuming from iteration %d", start)
		}
	}

	s := mcmc.NewSampler(m.logL, m.logPrior, kernels, densities, rng)
	s.AccPeriod = *accept

	traj, trajF := newTrajectoryWriter()
	if trajF != nil {
		defer trajF.Close()
	}
	sig := watchSignals()

	samples := make([][]float64, 2)
	var lastSt []float64
	i := start
Chain:
	for st := range s.Sample(initial) {
		lastSt = st
		writeTrajectory(traj, i, st)
		if i%*report == 0 {
			log.Noticef("%d: mean=%f sd=%f", i, st[0], st[1])
		}
		if i >= *burn {
			samples[0] = append(samples[0], st[0])
			samples[1] = append(samples[1], st[1])
		}
		if cpk != nil && cpk.Old() {
			cpk.Save(&checkpoint.CheckpointData{
				State:    st,
				LogL:     m.logL(st),
				LogPrior: m.logPrior(st),
				Iter:     i,
				Kernel:   (i - start) % len(kernels),
			})
		}
		i++
		if i >= start+*iterations {
			break
		}
		select {
		case sg := <-sig:
			log.Warningf("Received signal %v, exiting.", sg)
			break Chain
		default:
		}
	}
	if traj != nil {
		traj.Flush()
	}
	if cpk != nil {
		cpk.Save(&checkpoint.CheckpointData{
			State:    lastSt,
			LogL:     m.logL(lastSt),
			LogPrior: m.logPrior(lastSt),
			Iter:     i,
			Kernel:   (i - start) % len(kernels),
			Final:    true,
		})
	}
	return samples
}

// runEnsemble runs the ensemble sampler and returns the post burn-in
// samples for every parameter, aggregated over all walkers.
func runEnsemble(m *normModel, rng *rand.Rand) [][]float64 {
	initial := make(mcmc.Ensemble, *walkers)
	for i := range initial {
		initial[i] = []float64{rng.Float64()*20 - 10, rng.Float64()*5 + 0.5}
	}

	e := mcmc.NewEnsembleSampler(m.logL, m.logPrior, rng)
	e.AccPeriod = *accept

	seq, err := e.Sample(initial)
	if err != nil {
		log.Fatal(err)
	}

	traj, trajF := newTrajectoryWriter()
	if trajF != nil {
		defer trajF.Close()
	}
	sig := watchSignals()

	samples := make([][]float64, 2)
	var last mcmc.Ensemble
	i := 0
Ensemble:
	for ens := range seq {
		last = ens
		if i%*report == 0 {
			log.Noticef("%d: walker 0: mean=%f sd=%f", i, ens[0][0], ens[0][1])
		}
		for _, w := range ens {
			writeTrajectory(traj, i, w)
			if i >= *burn {
				samples[0] = append(samples[0], w[0])
				samples[1] = append(samples[1], w[1])
			}
		}
		i++
		if i >= *iterations {
			break
		}
		select {
		case s := <-sig:
			log.Warningf("Received signal %v, exiting.", s)
			break Ensemble
		default:
		}
	}
	if traj != nil {
		traj.Flush()
	}

	cov := stats.Covariance(last)
	log.Noticef("Final walker covariance: [%f %f; %f %f]",
		cov.At(0, 0), cov.At(0, 1), cov.At(1, 0), cov.At(1, 1))

	return samples
}

// summarize prints the posterior summary of a single parameter.
func summarize(name string, xs []float64) {
	fmt.Printf("%s\tmean=%f\tsd=%f\tmedian=%f\t95%%CI=(%f, %f)\n",
		name, stats.Mean(xs), stats.Std(xs),
		stats.Percentile(xs, 0.5),
		stats.Percentile(xs, 0.025), stats.Percentile(xs, 0.975))
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "gomcmc")
	logging.SetLevel(level, "mcmc")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	rng := rand.New(rand.NewSource(*seed))

	log.Infof("Will generate %d values from Norm(%v, %v^2)", *nData, *trueMean, *trueSD)
	m := &normModel{data: genData(*trueMean, *trueSD, *nData, rng)}
	log.Infof("Sample mean=%v, sd=%v", stats.Mean(m.data), stats.Std(m.data))

	startTime := time.Now()

	var samples [][]float64
	switch *method {
	case "mh":
		samples = runChain(m, rng)
	case "ensemble":
		samples = runEnsemble(m, rng)
	}

	summarize("mean", samples[0])
	summarize("sd", samples[1])

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
}
