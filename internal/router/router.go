package router

import (
	"seek_immo_v1_202610/internal/controller"
	"seek_immo_v1_202610/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "seek_immo_v1_202610/docs"
)

// Controllers 路由依赖的全部控制器。远程模式下 Bien / Bail / Lookup 为空
type Controllers struct {
	Bien   *controller.BienController
	Bail   *controller.BailController
	Lookup *controller.LookupController
	Wizard *controller.WizardController
	Lease  *controller.LeaseController
}

// Options 路由选项
type Options struct {
	// 地理编码去抖
	GeocodeDebouncer *middleware.Debouncer
	// 本地存储目录，非空时以 /uploads 提供静态访问
	UploadsDir string
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctl *Controllers, opts Options) {
	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"code": 0, "message": "ok"})
	})

	// Swagger 文档，访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", middleware.JWTAuth(), middleware.AuditContext())
	{
		// 内嵌模式才提供数据接口，远程模式只提供向导
		if ctl.Bien != nil {
			// 参考数据
			lookups := api.Group("/lookups")
			{
				lookups.GET("/types-logement", ctl.Lookup.TypesLogement())
				lookups.GET("/types-transaction", ctl.Lookup.TypesTransaction())
				lookups.GET("/statuts", ctl.Lookup.Statuts())
				lookups.GET("/equipements", ctl.Lookup.Equipements())
				lookups.GET("/meubles", ctl.Lookup.Meubles())
				lookups.GET("/pays", ctl.Lookup.Pays())
				lookups.GET("/pays/:id/villes", ctl.Lookup.Villes)
			}

			// 房源
			biens := api.Group("/biens")
			{
				biens.GET("", ctl.Bien.ListBiens)
				biens.GET("/disponibles", ctl.Bien.BiensDisponibles)
				biens.GET("/:id", ctl.Bien.GetBien)
				biens.POST("", ctl.Bien.CreateBien)
				biens.PUT("/:id", ctl.Bien.UpdateBien)
				biens.DELETE("/:id", ctl.Bien.DeleteBien)
				biens.POST("/:id/revisions", ctl.Bien.SubmitRevision)
				biens.POST("/:id/brouillon", ctl.Bien.ReturnToDraft)
				biens.POST("/:id/annuler", ctl.Bien.Cancel)
			}

			// 审核
			admin := api.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
			{
				admin.POST("/biens/:id/publier", ctl.Bien.Publish)
				admin.POST("/biens/:id/rejeter", ctl.Bien.Reject)
				admin.POST("/revisions/:id/approuver", ctl.Bien.ApproveRevision)
				admin.POST("/revisions/:id/rejeter", ctl.Bien.RejectRevision)
			}

			// 租客
			locataires := api.Group("/locataires")
			{
				locataires.POST("", ctl.Bail.CreateLocataire)
				locataires.GET("", ctl.Bail.ListLocataires)
				locataires.GET("/:id", ctl.Bail.GetLocataire)
				locataires.DELETE("/:id", ctl.Bail.DeleteLocataire)
			}

			// 租约 & 合同
			baux := api.Group("/baux")
			{
				baux.POST("", ctl.Bail.CreateBail)
				baux.GET("", ctl.Bail.ListBaux)
				baux.GET("/:id", ctl.Bail.GetBail)
				baux.POST("/:id/terminer", ctl.Bail.TerminerBail)
				baux.POST("/:id/resilier", ctl.Bail.ResilierBail)
				baux.POST("/:id/prolonger", ctl.Bail.ProlongerBail)
				baux.POST("/:id/annuler", ctl.Bail.AnnulerBail)
				baux.GET("/:id/contrat", ctl.Bail.GetContrat)
				baux.POST("/:id/contrat", ctl.Bail.GenerateContrat)
			}
			api.POST("/contrats/:id/envoyer", ctl.Bail.EnvoyerContrat)
			api.POST("/contrats/:id/renvoyer", ctl.Bail.RenvoyerContrat)

			// 地理编码
			if opts.GeocodeDebouncer != nil {
				api.GET("/geocode", middleware.Debounce(opts.GeocodeDebouncer), ctl.Lookup.Geocode)
			} else {
				api.GET("/geocode", ctl.Lookup.Geocode)
			}

			// 提醒配置
			api.GET("/parametres/rappels", ctl.Lookup.GetParametresRappel)
			api.PUT("/parametres/rappels", ctl.Lookup.SaveParametresRappel)
		}

		// 房源向导
		wizard := api.Group("/wizard")
		{
			sessions := wizard.Group("/sessions")
			sessions.POST("", ctl.Wizard.Open)
			sessions.GET("/:sid", ctl.Wizard.Get)
			sessions.PATCH("/:sid", ctl.Wizard.Patch)
			sessions.DELETE("/:sid", ctl.Wizard.Close)
			sessions.POST("/:sid/next", ctl.Wizard.Next)
			sessions.POST("/:sid/prev", ctl.Wizard.Prev)
			sessions.POST("/:sid/tab", ctl.Wizard.GoTo)
			sessions.POST("/:sid/photos", ctl.Wizard.AddPhotos)
			sessions.DELETE("/:sid/photos/:idx", ctl.Wizard.RemovePhoto)
			sessions.DELETE("/:sid/existing-photos", ctl.Wizard.RemoveExistingPhoto)
			sessions.PUT("/:sid/main-photo", ctl.Wizard.SetMainPhoto)
			sessions.POST("/:sid/submit", ctl.Wizard.Submit)

			// 租约状态
			wizard.GET("/biens/:id/transitions", ctl.Lease.Transitions)
			wizard.POST("/baux/:id/terminer", ctl.Lease.End)
			wizard.POST("/baux/:id/resilier", ctl.Lease.Rescind)
			wizard.POST("/baux/:id/prolonger", ctl.Lease.Extend)
			wizard.POST("/baux/:id/contrat/renvoyer", ctl.Lease.Resend)

			// 租约创建流程
			wizard.POST("/lease-flows", ctl.Lease.StartFlow)
			wizard.POST("/lease-flows/:fid/valider", ctl.Lease.ValidateFlow)
			wizard.DELETE("/lease-flows/:fid", ctl.Lease.DismissFlow)
		}
	}
}
