package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/eoq"
)

var (
	// eoq flags
	modelName      string    // eoq, eoq-production or eoq-backorders
	demandValues   []float64 // Demand forecast per period
	orderingCost   float64   // Fixed cost per order
	holdingCost    float64   // Holding cost per unit
	productionRate float64   // Production rate (eoq-production)
	stockoutCost   float64   // Stockout cost per unit (eoq-backorders)

	// reorder-point flags
	distribution string            // Demand distribution name
	serviceLevel float64           // Target service level in (0, 1)
	loc          float64           // Distribution location
	scale        float64           // Distribution scale
	shapeParams  map[string]string // Extra shape parameters (a, c, n, p)
	onHand       float64           // Stock level to evaluate (optional)
)

// eoqCmd computes a single order quantity
var eoqCmd = &cobra.Command{
	Use:   "eoq",
	Short: "Compute an economic order quantity",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		spec := eoq.Spec{
			Model:          strings.ReplaceAll(modelName, "-", "_"),
			OrderingCost:   orderingCost,
			HoldingCost:    holdingCost,
			ProductionRate: productionRate,
			StockoutCost:   stockoutCost,
		}
		if err := runEOQ(os.Stdout, spec, demandValues); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// reorderPointCmd translates a service level into a reorder point
var reorderPointCmd = &cobra.Command{
	Use:   "reorder-point",
	Short: "Compute the reorder point for a service level",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		params, err := distributionParams(loc, scale, shapeParams)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		var inventory *float64
		if cmd.Flags().Changed("inventory") {
			inventory = &onHand
		}
		if err := runReorderPoint(os.Stdout, distribution, serviceLevel, params, inventory); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runEOQ builds the model from spec and prints its result for demand.
func runEOQ(w io.Writer, spec eoq.Spec, demand []float64) error {
	model, err := eoq.NewModel(spec)
	if err != nil {
		return err
	}
	res, err := model.CalculateOrderQuantities(demand)
	if err != nil {
		return fmt.Errorf("computing order quantity: %w", err)
	}
	fmt.Fprintf(w, "Order Quantity : %.4f\n", res.Quantity)
	fmt.Fprintf(w, "Total Cost     : %.4f\n", res.Cost)
	if spec.Model == eoq.ModelEOQBackorders {
		fmt.Fprintf(w, "Backorders     : %.4f\n", res.Backorders)
	}
	return nil
}

// runReorderPoint prints the reorder point for serviceLevel and, when
// inventory is set, the service level that stock would achieve.
func runReorderPoint(w io.Writer, name string, serviceLevel float64, params dist.Params, inventory *float64) error {
	d, err := dist.Lookup(name)
	if err != nil {
		return err
	}
	rop, err := d.Quantile(serviceLevel, params)
	if err != nil {
		return fmt.Errorf("reorder point: %w", err)
	}
	fmt.Fprintf(w, "Distribution   : %s\n", d.Name())
	fmt.Fprintf(w, "Reorder Point  : %.4f\n", rop)
	if inventory != nil {
		sl, err := d.CDF(*inventory, params)
		if err != nil {
			return fmt.Errorf("service level: %w", err)
		}
		fmt.Fprintf(w, "Service Level  : %.4f at %.2f units\n", sl, *inventory)
	}
	return nil
}

// distributionParams merges --loc, --scale and --param into dist.Params.
func distributionParams(loc, scale float64, extra map[string]string) (dist.Params, error) {
	params := dist.Params{"loc": loc, "scale": scale}
	for k, v := range extra {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("--param %s=%s: %w", k, v, err)
		}
		params[k] = f
	}
	return params, nil
}

func init() {
	eoqCmd.Flags().StringVar(&modelName, "model", eoq.ModelEOQ, "Model: eoq, eoq-production, eoq-backorders")
	eoqCmd.Flags().Float64SliceVar(&demandValues, "demand", nil, "Comma-separated demand forecast per period")
	eoqCmd.Flags().Float64Var(&orderingCost, "ordering-cost", 0, "Fixed cost per order")
	eoqCmd.Flags().Float64Var(&holdingCost, "holding-cost", 0, "Holding cost per unit")
	eoqCmd.Flags().Float64Var(&productionRate, "production-rate", 0, "Production rate (eoq-production)")
	eoqCmd.Flags().Float64Var(&stockoutCost, "stockout-cost", 0, "Stockout cost per unit (eoq-backorders)")
	_ = eoqCmd.MarkFlagRequired("demand")

	reorderPointCmd.Flags().StringVar(&distribution, "distribution", dist.Normal, "Demand distribution ("+strings.Join(dist.Names(), ", ")+")")
	reorderPointCmd.Flags().Float64Var(&serviceLevel, "service-level", 0.95, "Target service level in (0, 1)")
	reorderPointCmd.Flags().Float64Var(&loc, "loc", 0, "Distribution location")
	reorderPointCmd.Flags().Float64Var(&scale, "scale", 1, "Distribution scale")
	reorderPointCmd.Flags().StringToStringVar(&shapeParams, "param", nil, "Shape parameters, e.g. a=3 or n=10,p=0.4")
	reorderPointCmd.Flags().Float64Var(&onHand, "inventory", 0, "Also report the service level reached with this stock")

	rootCmd.AddCommand(eoqCmd)
	rootCmd.AddCommand(reorderPointCmd)
}
